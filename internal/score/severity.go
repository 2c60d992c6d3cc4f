package score

import (
	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/model"
)

// HighTermPattern matches safety-critical vocabulary that raises severity
var HighTermPattern = extract.MustCompileWords(`brake|emergency|shutdown|stop|hazard|fault|safety|alarm|ventilator|infusion|dose|radiation|landing|autopilot|airbag`)

// Rule names that take part in severity estimation
const (
	RuleVagueTerm  = "vague_term"
	RuleUnbounded  = "unbounded"
	RuleModalVague = "modal_vague"
	RulePassive    = "passive"
)

// escalating rules yield high severity when a high term is present
var escalating = map[string]bool{
	RuleVagueTerm:  true,
	RuleUnbounded:  true,
	RuleModalVague: true,
}

// Severity estimates the impact of the matched rules on text.
// No matches means the requirement is clear and has no severity.
//
//  1. high    if an escalating rule matched and a high term is present
//  2. low     if passive matched and no high term is present
//  3. medium  otherwise
func Severity(matched []string, text string) model.Severity {
	if len(matched) == 0 {
		return model.SeverityNone
	}

	highTerm := HighTermPattern.MatchString(text)

	escalates := false
	passive := false
	for _, name := range matched {
		if escalating[name] {
			escalates = true
		}
		if name == RulePassive {
			passive = true
		}
	}

	switch {
	case escalates && highTerm:
		return model.SeverityHigh
	case passive && !highTerm:
		return model.SeverityLow
	default:
		return model.SeverityMedium
	}
}
