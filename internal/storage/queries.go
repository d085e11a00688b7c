package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-possession-log/internal/model"
)

// InsertRun records a pipeline run. Re-inserting a run updates it in place
// (a REPLACE would cascade-delete its match results).
func (db *DB) InsertRun(run model.RunSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs(id, team, started_at, coordinate_policy)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team = excluded.team,
			started_at = excluded.started_at,
			coordinate_policy = excluded.coordinate_policy`,
		run.RunID, run.Team, run.StartedAt, run.Policy,
	)
	return err
}

// SaveMatch stores one match result and its rows in a single transaction.
// Saving the same (run, match) again replaces the previous rows.
func (db *DB) SaveMatch(runID string, res model.MatchResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO match_results(
			run_id, match_id, match_date, status, match_won, events, row_count,
			cases, goal_cases, dropped, synthetic, warning, error
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, res.MatchID, res.MatchDate, string(res.Status), res.Outcome.String(), res.Events, len(res.Rows),
		res.Cases, res.GoalCases, res.Dropped, res.Synthetic,
		strings.Join(res.Warnings, "; "), errText,
	); err != nil {
		return fmt.Errorf("insert match_results for %s: %w", res.MatchID, err)
	}

	if _, err := tx.Exec(`DELETE FROM event_rows WHERE run_id = ? AND match_id = ?`, runID, res.MatchID); err != nil {
		return fmt.Errorf("clear event_rows for %s: %w", res.MatchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO event_rows(
			run_id, match_id, seq, case_id, activity, timestamp, resource, team,
			period, minute, second, possession, zone, vertical,
			finalize_in_goal, match_won, possession_type
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range res.Rows {
		_, err = stmt.Exec(
			runID, r.MatchID, i, r.CaseID, r.Activity, r.Timestamp, r.Resource, r.Team,
			r.Period, r.Minute, r.Second, possessionValue(r.Possession), r.Zone, r.Vertical,
			boolInt(r.FinalizeInGoal), r.MatchWon.String(), string(r.PossessionType),
		)
		if err != nil {
			return fmt.Errorf("insert event_rows for %s/%d: %w", res.MatchID, i, err)
		}
	}
	return tx.Commit()
}

const runSummarySelect = `
	SELECT r.id, r.team, r.started_at, r.coordinate_policy,
	       COALESCE(SUM(m.status = 'ok'), 0),
	       COALESCE(SUM(m.status = 'degraded'), 0),
	       COALESCE(SUM(m.status = 'failed'), 0),
	       COALESCE(SUM(m.row_count), 0)
	FROM runs r
	LEFT JOIN match_results m ON m.run_id = r.id`

func scanRunSummary(sc interface{ Scan(...any) error }) (model.RunSummary, error) {
	var s model.RunSummary
	err := sc.Scan(&s.RunID, &s.Team, &s.StartedAt, &s.Policy,
		&s.MatchesOK, &s.MatchesWarn, &s.MatchesFail, &s.RowCount)
	return s, err
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(runSummarySelect + `
		GROUP BY r.id
		ORDER BY r.started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		s, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the newest run whose id starts with the given prefix.
// The prefix is matched literally.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	s, err := scanRunSummary(db.conn.QueryRow(runSummarySelect+`
		WHERE r.id LIKE ? ESCAPE '\'
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT 1`, likePrefix(prefix)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetMatchResults returns the stored per-match results of a run, ordered by match id
// (numeric ids by value).
func (db *DB) GetMatchResults(runID string) ([]model.StoredMatch, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, match_date, status, match_won, events, row_count, cases, goal_cases, warning, error
		FROM match_results WHERE run_id = ?
		ORDER BY LENGTH(match_id), match_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.StoredMatch
	for rows.Next() {
		var m model.StoredMatch
		var status, won, warning, errText string
		if err := rows.Scan(&m.MatchID, &m.MatchDate, &status, &won, &m.Events, &m.Rows,
			&m.Cases, &m.GoalCases, &warning, &errText); err != nil {
			return nil, err
		}
		m.RunID = runID
		m.Status = model.MatchStatus(status)
		m.Outcome = model.ParseOutcome(won)
		m.Warning = warning
		if errText != "" {
			m.Warning = errText
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetEventRows returns a match's rows of a run in output order.
func (db *DB) GetEventRows(runID, matchID string) ([]model.EnrichedEventRow, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, case_id, activity, timestamp, resource, team,
		       period, minute, second, possession, zone, vertical,
		       finalize_in_goal, match_won, possession_type
		FROM event_rows WHERE run_id = ? AND match_id = ?
		ORDER BY seq`, runID, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EnrichedEventRow
	for rows.Next() {
		var r model.EnrichedEventRow
		var possession sql.NullInt64
		var goalInt int
		var won, ptype string
		if err := rows.Scan(
			&r.MatchID, &r.CaseID, &r.Activity, &r.Timestamp, &r.Resource, &r.Team,
			&r.Period, &r.Minute, &r.Second, &possession, &r.Zone, &r.Vertical,
			&goalInt, &won, &ptype,
		); err != nil {
			return nil, err
		}
		r.Possession = model.NoPossession
		if possession.Valid {
			r.Possession = model.PossessionID(possession.Int64)
		}
		r.FinalizeInGoal = goalInt != 0
		r.MatchWon = model.ParseOutcome(won)
		r.PossessionType = model.PossessionType(ptype)
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary read query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func possessionValue(p model.PossessionID) any {
	if p == model.NoPossession {
		return nil
	}
	return int64(p)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix builds a LIKE pattern matching strings that start with prefix.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
