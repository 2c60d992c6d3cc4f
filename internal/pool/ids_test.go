package pool

import (
	"testing"

	"github.com/ppiankov/regulqa/internal/model"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		source string
		seq    int
		want   string
	}{
		{model.SourcePURE, 0, "PURE_000000"},
		{model.SourcePromiseExp, 12, "PROM_000012"},
		{model.SourceNASATrick, 999999, "NASA_999999"},
		{model.SourceSynthetic, 7, "SYN_000007"},
		{model.SourceDomain, 42, "DOM_000042"},
		{"SOMETHING_ELSE", 3, "UNK_000003"},
		{"", 1234567, "UNK_1234567"},
	}

	for _, tt := range tests {
		if got := FormatID(tt.source, tt.seq); got != tt.want {
			t.Errorf("FormatID(%q, %d): expected %s, got %s", tt.source, tt.seq, tt.want, got)
		}
	}
}
