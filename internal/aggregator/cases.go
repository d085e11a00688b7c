package aggregator

import (
	"github.com/pable/go-possession-log/internal/model"
)

// SummarizeCases groups rows by case id, in order of first appearance.
// Actions counts original rows only; synthetic Goal rows are not actions.
func SummarizeCases(rows []model.EnrichedEventRow) []model.CaseSummary {
	index := make(map[string]int)
	resources := make(map[string]map[string]bool)
	var out []model.CaseSummary

	for _, r := range rows {
		i, ok := index[r.CaseID]
		if !ok {
			i = len(out)
			index[r.CaseID] = i
			resources[r.CaseID] = make(map[string]bool)
			out = append(out, model.CaseSummary{
				CaseID:         r.CaseID,
				Possession:     r.Possession,
				FirstZone:      r.Zone,
				PossessionType: r.PossessionType,
				Start:          r.Timestamp,
			})
		}
		c := &out[i]
		c.LastZone = r.Zone
		if r.FinalizeInGoal {
			c.FinalizeInGoal = true
		}
		if r.Activity == model.ActivityGoal {
			continue
		}
		c.Actions++
		if r.Resource != "" && !resources[r.CaseID][r.Resource] {
			resources[r.CaseID][r.Resource] = true
			c.Resources++
		}
	}
	return out
}

// CountCases returns the number of distinct cases and of goal-ending cases in rows.
func CountCases(rows []model.EnrichedEventRow) (cases, goalCases int) {
	seen := make(map[string]bool)
	for _, r := range rows {
		if _, ok := seen[r.CaseID]; !ok {
			seen[r.CaseID] = false
			cases++
		}
		if r.FinalizeInGoal && !seen[r.CaseID] {
			seen[r.CaseID] = true
			goalCases++
		}
	}
	return cases, goalCases
}
