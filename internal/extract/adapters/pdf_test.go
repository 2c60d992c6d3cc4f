package adapters

import "testing"

func TestContentStreamText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single line stream",
			content: "BT /F1 12 Tf 72 712 Td (The system shall stop.) Tj ET",
			want:    "The system shall stop.",
		},
		{
			name: "kerned array",
			content: `BT
/F1 10 Tf
[(The pump) -250 (shall) -250 ( restart.)] TJ
ET`,
			want: "The pump shall restart.",
		},
		{
			name:    "positioning breaks words",
			content: "BT (First line.) Tj 0 -14 Td (Second line.) Tj ET",
			want:    "First line. Second line.",
		},
		{
			name:    "escapes and nesting",
			content: `BT (Limit \(max\) is 5\0410) Tj ET`,
			want:    "Limit (max) is 5!0",
		},
		{
			name:    "balanced parentheses",
			content: "BT (a (nested) value) Tj ET",
			want:    "a (nested) value",
		},
		{
			name:    "next-line operator",
			content: "BT (One.) Tj (Two.) ' ET",
			want:    "One. Two.",
		},
		{
			name:    "hex strings and dictionaries are skipped",
			content: "/Span <</MCID 0>> BDC BT <0041> Tj (Text.) Tj ET EMC",
			want:    "Text.",
		},
		{
			name:    "comments",
			content: "% (not text) Tj\nBT (Shown.) Tj ET",
			want:    "Shown.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentStreamText([]byte(tt.content)); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPDFAdapter_RejectsNonPDF(t *testing.T) {
	if _, err := NewPDFAdapter().Extract([]byte("<html>not a pdf</html>")); err == nil {
		t.Error("Expected error for non-PDF input")
	}
}
