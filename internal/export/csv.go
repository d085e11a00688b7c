// Package export writes enriched rows as one CSV file per match.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pable/go-possession-log/internal/model"
)

// Columns is the stable output column order.
var Columns = []string{
	"match_id", "case_id", "activity", "timestamp", "resource", "team",
	"period", "minute", "second", "possession", "zone", "vertical",
	"finalize_in_goal", "match_won", "possession_type",
}

// Record renders a row in Columns order.
func Record(r model.EnrichedEventRow) []string {
	return []string{
		r.MatchID,
		r.CaseID,
		r.Activity,
		r.Timestamp,
		r.Resource,
		r.Team,
		strconv.Itoa(r.Period),
		strconv.Itoa(r.Minute),
		strconv.Itoa(r.Second),
		r.Possession.Column(),
		r.Zone,
		r.Vertical,
		strconv.FormatBool(r.FinalizeInGoal),
		r.MatchWon.String(),
		string(r.PossessionType),
	}
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []model.EnrichedEventRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatchFile writes <dir>/<matchID>.csv atomically (temp file + rename) so a
// failed write never leaves a partial file behind.
func WriteMatchFile(dir, matchID string, rows []model.EnrichedEventRow) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, matchID+".csv")
	tmp, err := os.CreateTemp(dir, "."+matchID+"-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
