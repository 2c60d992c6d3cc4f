package score

import (
	"testing"

	"github.com/ppiankov/regulqa/internal/model"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		name    string
		matched []string
		text    string
		want    model.Severity
	}{
		{"clear", nil, "The system shall brake.", model.SeverityNone},
		{"vague with high term", []string{RuleVagueTerm}, "The brake shall respond quickly.", model.SeverityHigh},
		{"modal with high term", []string{RuleModalVague}, "The alarm should sound.", model.SeverityHigh},
		{"unbounded with high term", []string{RuleUnbounded}, "The pump shall never stop.", model.SeverityHigh},
		{"passive without high term", []string{RulePassive}, "Data shall be stored.", model.SeverityLow},
		{"passive with high term", []string{RulePassive}, "The fault shall be logged.", model.SeverityMedium},
		{"high beats low", []string{RuleVagueTerm, RulePassive}, "The safety valve shall be fast.", model.SeverityHigh},
		{"passive and vague without high term", []string{RuleVagueTerm, RulePassive}, "Reports shall be fast.", model.SeverityLow},
		{"comparative only", []string{"comparative"}, "The UI shall be better.", model.SeverityMedium},
		{"vague without high term", []string{RuleVagueTerm}, "The UI shall respond quickly.", model.SeverityMedium},
		{"high term is a whole word", []string{RuleVagueTerm}, "The stopwatch shall be fast.", model.SeverityMedium},
		{"high term case insensitive", []string{RuleVagueTerm}, "EMERGENCY mode shall be robust.", model.SeverityHigh},
		{"high term followed by accented letter", []string{RuleVagueTerm}, "The alarmé shall be fast.", model.SeverityMedium},
		{"high term after accented word", []string{RuleVagueTerm}, "Départ brake shall be fast.", model.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Severity(tt.matched, tt.text); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
