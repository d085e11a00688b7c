package storage

import (
	"github.com/pable/go-possession-log/internal/model"
)

// GetDBOverview returns store-wide totals. Matches counts distinct match ids
// across runs; rows and cases are summed over every run.
func (db *DB) GetDBOverview() (model.DBOverview, error) {
	var ov model.DBOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(MIN(started_at), ''), COALESCE(MAX(started_at), '')
		FROM runs`).Scan(&ov.Runs, &ov.FirstRun, &ov.LastRun)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT match_id),
		       COALESCE(SUM(row_count), 0),
		       COALESCE(SUM(cases), 0),
		       COALESCE(SUM(goal_cases), 0)
		FROM match_results`).Scan(&ov.Matches, &ov.Rows, &ov.Cases, &ov.GoalCases)
	return ov, err
}

// TopResources returns the players of a run ordered by goal-ending cases, then actions.
// Synthetic Goal rows are not counted as actions.
func (db *DB) TopResources(runID string, limit int) ([]model.ResourceStat, error) {
	rows, err := db.conn.Query(`
		SELECT resource,
		       SUM(activity != 'Goal'),
		       COUNT(DISTINCT case_id),
		       COUNT(DISTINCT CASE WHEN finalize_in_goal = 1 THEN case_id END)
		FROM event_rows
		WHERE run_id = ? AND resource != ''
		GROUP BY resource
		ORDER BY 4 DESC, 2 DESC, resource
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ResourceStat
	for rows.Next() {
		var s model.ResourceStat
		if err := rows.Scan(&s.Name, &s.Actions, &s.Cases, &s.GoalCases); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
