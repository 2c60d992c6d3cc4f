package label

import (
	"sort"
	"strings"

	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/score"
)

// Classification is the verdict of the rule bank for one text
type Classification struct {
	Presence model.Presence
	Types    []string
	Clauses  []string
	Severity model.Severity
	Matched  []string // rule names in bank order
}

// AmbigType renders the type set as stored in the ambig_type column
func (c Classification) AmbigType() string {
	return strings.Join(c.Types, ";")
}

// RegClause renders the clause set as stored in the reg_clause column
func (c Classification) RegClause() string {
	return strings.Join(c.Clauses, "; ")
}

// Notes lists the matched rule names
func (c Classification) Notes() string {
	return strings.Join(c.Matched, ", ")
}

// Engine applies a rule bank to requirement texts
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over rules; nil selects DefaultRules
func NewEngine(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Classify evaluates every rule against text
func (e *Engine) Classify(text string) Classification {
	types := map[string]bool{}
	clauses := map[string]bool{}
	var matched []string

	for _, rule := range e.rules {
		if !rule.Pattern.MatchString(text) {
			continue
		}
		matched = append(matched, rule.Name)
		types[string(rule.Category)] = true
		for _, c := range rule.Clauses {
			clauses[c] = true
		}
	}

	if len(matched) == 0 {
		return Classification{Presence: model.PresenceClear}
	}

	return Classification{
		Presence: model.PresenceAmbiguous,
		Types:    sortedKeys(types),
		Clauses:  sortedKeys(clauses),
		Severity: score.Severity(matched, text),
		Matched:  matched,
	}
}

// Apply fills the annotation columns of rec from its classification,
// keeping every value that is already present
func (e *Engine) Apply(rec model.Record) model.Record {
	c := e.Classify(rec.ReqText)

	rec.AmbigPresence = model.Presence(PreferExisting(string(rec.AmbigPresence), string(c.Presence)))
	rec.AmbigType = PreferExisting(rec.AmbigType, c.AmbigType())
	rec.RegClause = PreferExisting(rec.RegClause, c.RegClause())
	rec.Severity = model.Severity(PreferExisting(string(rec.Severity), string(c.Severity)))
	rec.Notes = PreferExisting(rec.Notes, c.Notes())

	return rec
}

// LabelAll applies the engine to every record and returns a new slice
func (e *Engine) LabelAll(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		out[i] = e.Apply(rec)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
