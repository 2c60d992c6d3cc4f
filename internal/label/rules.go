package label

import (
	"regexp"

	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/score"
)

// Rule is one ambiguity heuristic: a pattern, its linguistic category and
// the clauses it maps to
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Category model.Category
	Clauses  []string
}

// Clause citations
const (
	ClauseISO29148Ambiguity    = "ISO 29148 §5.2.3"
	ClauseISO29148Verifiable   = "ISO 29148 §5.2.4"
	ClauseISO29148Clarity      = "ISO 29148 §5.2 (clarity & testability)"
	ClauseISO26262Requirements = "ISO 26262-8 §6.4.3"
)

// DefaultRules returns the rule bank in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     score.RuleVagueTerm,
			Pattern:  extract.MustCompileWords(`as soon as possible|as appropriate|as far as possible|as necessary|if feasible|sufficient|adequate|optimal|user[- ]?friendly|appropriate|relevant|quickly|fast|minimi[sz]e|maximi[sz]e|soon|frequently|periodically|regularly|robust|reliable|secure|safe(ly)?|intuitive|efficient|effective`),
			Category: model.CategoryLexical,
			Clauses:  []string{ClauseISO29148Ambiguity, ClauseISO26262Requirements},
		},
		{
			Name:     "comparative",
			Pattern:  extract.MustCompileWords(`better|faster|higher|lower|best|worst|least|most|improv(e|ed|ement)`),
			Category: model.CategoryLexical,
			Clauses:  []string{ClauseISO29148Verifiable},
		},
		{
			Name:     score.RuleModalVague,
			Pattern:  extract.MustCompileWords(`should|may|could|might`),
			Category: model.CategoryLexical,
			Clauses:  []string{ClauseISO29148Ambiguity},
		},
		{
			Name:     score.RulePassive,
			Pattern:  extract.MustCompileWords(`shall be|must be|will be|to be`),
			Category: model.CategorySyntactic,
			Clauses:  []string{ClauseISO29148Clarity},
		},
		{
			Name:     score.RuleUnbounded,
			Pattern:  extract.MustCompileWords(`always|never|asap`),
			Category: model.CategoryLexical,
			Clauses:  []string{ClauseISO29148Verifiable},
		},
		{
			Name:     "anaphora",
			Pattern:  regexp.MustCompile(`(?i)^(?:it|they|this|that)` + extract.WordEnd),
			Category: model.CategorySemantic,
			Clauses:  []string{ClauseISO29148Ambiguity},
		},
	}
}
