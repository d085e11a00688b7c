package storage

import (
	"github.com/pable/go-possession-log/internal/model"
)

// PossessionTypeBreakdown counts cases, goal-ending cases and rows per possession type for a run.
func (db *DB) PossessionTypeBreakdown(runID string) ([]model.Breakdown, error) {
	return db.breakdown(`
		SELECT possession_type,
		       COUNT(DISTINCT case_id),
		       COUNT(DISTINCT CASE WHEN finalize_in_goal = 1 THEN case_id END),
		       COUNT(*)
		FROM event_rows WHERE run_id = ?
		GROUP BY possession_type
		ORDER BY CASE possession_type
			WHEN 'Fast Transition' THEN 0
			WHEN 'Normal Play' THEN 1
			WHEN 'Long Buildup' THEN 2
			ELSE 3 END`, runID)
}

// ZoneBreakdown counts, per zone, the cases touching it, the goals scored from it and its rows.
func (db *DB) ZoneBreakdown(runID string) ([]model.Breakdown, error) {
	return db.breakdown(`
		SELECT zone,
		       COUNT(DISTINCT case_id),
		       SUM(activity = 'Goal'),
		       COUNT(*)
		FROM event_rows WHERE run_id = ?
		GROUP BY zone
		ORDER BY CASE zone
			WHEN 'Own Penalty Area' THEN 0
			WHEN 'Own Half' THEN 1
			WHEN 'Midfield Zone' THEN 2
			WHEN 'Attacking 3/4' THEN 3
			WHEN 'Opponent Half' THEN 4
			WHEN 'Opponent Penalty Area' THEN 5
			ELSE 6 END`, runID)
}

func (db *DB) breakdown(query, runID string) ([]model.Breakdown, error) {
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Breakdown
	for rows.Next() {
		var b model.Breakdown
		if err := rows.Scan(&b.Label, &b.Cases, &b.Goals, &b.Rows); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
