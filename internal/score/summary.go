package score

import (
	"fmt"
	"sort"

	"github.com/ppiankov/regulqa/internal/model"
)

// TopTypesLimit caps the ambig_type ranking in the summary
const TopTypesLimit = 10

// Summarize computes the quality summary of a labeled dataset
func Summarize(records []model.Record) model.QualitySummary {
	summary := model.QualitySummary{Total: len(records)}

	presence := map[string]int{}
	types := map[string]int{}
	severity := map[string]int{}
	sectors := map[string]int{}
	seen := map[string]bool{}

	for _, rec := range records {
		presence[string(rec.AmbigPresence)]++
		sectors[string(rec.Sector)]++

		if rec.AmbigPresence == model.PresenceAmbiguous {
			types[rec.AmbigType]++
			severity[string(rec.Severity)]++
		}

		if seen[rec.ReqText] {
			summary.DuplicateText++
		}
		seen[rec.ReqText] = true
	}

	summary.Presence = rank(presence, 0)
	summary.TopTypes = rank(types, TopTypesLimit)
	summary.Severity = rank(severity, 0)
	summary.Sectors = rank(sectors, 0)
	summary.Warnings = warnings(summary, presence)

	return summary
}

// rank orders counts by frequency, then value; limit <= 0 keeps all
func rank(counts map[string]int, limit int) []model.Count {
	out := make([]model.Count, 0, len(counts))
	for value, n := range counts {
		out = append(out, model.Count{Value: value, N: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Value < out[j].Value
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func warnings(summary model.QualitySummary, presence map[string]int) []string {
	var w []string

	if summary.Total == 0 {
		return append(w, "Dataset is empty")
	}

	if summary.DuplicateText > 0 {
		w = append(w, fmt.Sprintf("%d duplicate req_text entries", summary.DuplicateText))
	}

	if n := presence[string(model.PresenceUnlabeled)]; n > 0 {
		w = append(w, fmt.Sprintf("%d rows have no ambig_presence", n))
	}

	// A corpus where almost everything is flagged usually means a rule is too broad
	ambiguous := presence[string(model.PresenceAmbiguous)]
	if ratio := float64(ambiguous) / float64(summary.Total); ratio > 0.9 {
		w = append(w, fmt.Sprintf("%.0f%% of rows flagged ambiguous", ratio*100))
	}

	return w
}
