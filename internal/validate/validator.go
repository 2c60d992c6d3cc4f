package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/pool"
)

// Check names
const (
	CheckIDFormat        = "id_format"
	CheckIDUnique        = "id_unique"
	CheckIDPrefix        = "id_prefix"
	CheckTextLength      = "req_text_length"
	CheckTextUnique      = "req_text_unique"
	CheckTextNormalized  = "req_text_normalized"
	CheckTier            = "tier"
	CheckProvenance      = "provenance"
	CheckSector          = "sector"
	CheckPresence        = "ambig_presence"
	CheckTypeConsistency = "ambig_type"
	CheckClause          = "reg_clause"
	CheckSeverity        = "severity"
)

var idPattern = regexp.MustCompile(`^[A-Z]+_[0-9]{6,}$`)

// Violation is one broken invariant
type Violation struct {
	Row     int    `json:"row"` // zero-based record index
	ID      string `json:"id"`
	Check   string `json:"check"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d (%s): %s: %s", v.Row, v.ID, v.Check, v.Message)
}

// Report is the outcome of validating a dataset
type Report struct {
	Checked    int         `json:"checked"`
	Violations []Violation `json:"violations"`
}

// OK reports whether no invariant was broken
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Counts groups violations by check
func (r Report) Counts() map[string]int {
	counts := make(map[string]int)
	for _, v := range r.Violations {
		counts[v.Check]++
	}
	return counts
}

// Validator checks pool and labeled datasets against the record invariants
type Validator struct {
	provenance *ProvenanceClassifier
}

// NewValidator creates a validator; a nil classifier uses the default folders
func NewValidator(provenance *ProvenanceClassifier) *Validator {
	if provenance == nil {
		provenance = NewProvenanceClassifier(nil)
	}
	return &Validator{provenance: provenance}
}

// Validate checks every record and returns all violations found
func (v *Validator) Validate(records []model.Record) Report {
	report := Report{Checked: len(records), Violations: []Violation{}}

	ids := make(map[string]int)
	texts := make(map[string]int)

	add := func(row int, rec model.Record, check, format string, args ...interface{}) {
		report.Violations = append(report.Violations, Violation{
			Row:     row,
			ID:      rec.ID,
			Check:   check,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		// 1. Identity
		if !idPattern.MatchString(rec.ID) {
			add(i, rec, CheckIDFormat, "malformed id %q", rec.ID)
		} else if prefix := pool.Prefix(rec.Source); !strings.HasPrefix(rec.ID, prefix+"_") {
			add(i, rec, CheckIDPrefix, "id prefix does not match source %q (want %s)", rec.Source, prefix)
		}
		if first, dup := ids[rec.ID]; dup && rec.ID != "" {
			add(i, rec, CheckIDUnique, "id already used by row %d", first)
		} else {
			ids[rec.ID] = i
		}

		// 2. Text
		if utf8.RuneCountInString(rec.ReqText) <= pool.MinTextLen {
			add(i, rec, CheckTextLength, "req_text shorter than %d characters", pool.MinTextLen+1)
		}
		if extract.Normalize(rec.ReqText) != rec.ReqText {
			add(i, rec, CheckTextNormalized, "req_text has unnormalized whitespace")
		}
		if first, dup := texts[rec.ReqText]; dup {
			add(i, rec, CheckTextUnique, "req_text duplicates row %d", first)
		} else {
			texts[rec.ReqText] = i
		}

		// 3. Provenance
		if rec.Tier.Rank() > 3 {
			add(i, rec, CheckTier, "unknown tier %q", rec.Tier)
		} else if want, known := v.provenance.Tier(rec.Source); known && want != rec.Tier {
			add(i, rec, CheckProvenance, "source %s belongs to %s, got %s", rec.Source, want, rec.Tier)
		}
		if !rec.Sector.Valid() {
			add(i, rec, CheckSector, "unknown sector %q", rec.Sector)
		}

		// 4. Annotation consistency
		v.checkAnnotations(i, rec, add)
	}

	return report
}

func (v *Validator) checkAnnotations(i int, rec model.Record, add func(int, model.Record, string, string, ...interface{})) {
	if !rec.AmbigPresence.Valid() {
		add(i, rec, CheckPresence, "unknown presence %q", rec.AmbigPresence)
		return
	}
	if !rec.Severity.Valid() {
		add(i, rec, CheckSeverity, "unknown severity %q", rec.Severity)
	}

	ambiguous := rec.AmbigPresence == model.PresenceAmbiguous

	switch {
	case ambiguous && rec.AmbigType == "":
		add(i, rec, CheckTypeConsistency, "ambiguous record without ambig_type")
	case !ambiguous && rec.AmbigType != "":
		add(i, rec, CheckTypeConsistency, "ambig_type set on a %q record", rec.AmbigPresence)
	case ambiguous:
		for _, t := range strings.Split(rec.AmbigType, ";") {
			switch model.Category(t) {
			case model.CategoryLexical, model.CategorySyntactic, model.CategorySemantic:
			default:
				add(i, rec, CheckTypeConsistency, "unknown category %q", t)
			}
		}
	}

	switch {
	case ambiguous && rec.RegClause == "":
		add(i, rec, CheckClause, "ambiguous record without reg_clause")
	case !ambiguous && rec.RegClause != "":
		add(i, rec, CheckClause, "reg_clause set on a %q record", rec.AmbigPresence)
	}

	switch {
	case ambiguous && rec.Severity == model.SeverityNone:
		add(i, rec, CheckSeverity, "ambiguous record without severity")
	case !ambiguous && rec.Severity != model.SeverityNone:
		add(i, rec, CheckSeverity, "severity set on a %q record", rec.AmbigPresence)
	}
}
