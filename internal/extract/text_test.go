package extract

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  The system   shall\tlog\n faults. ", "The system shall log faults."},
		{"", ""},
		{"\n\t ", ""},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSentences_Boundaries(t *testing.T) {
	text := "The ECU shall log faults. The display should dim! Is it safe? 3 sensors must agree."

	got := SplitSentences(text)
	want := []string{
		"The ECU shall log faults.",
		"The display should dim!",
		"Is it safe?",
		"3 sensors must agree.",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSplitSentences_LowercaseDoesNotSplit(t *testing.T) {
	text := "Values are given in approx. ten units. The pump shall stop."

	got := SplitSentences(text)
	want := []string{
		"Values are given in approx. ten units.",
		"The pump shall stop.",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSplitSentences_RequiresWhitespace(t *testing.T) {
	got := SplitSentences("Version 2.A shall apply.No split here")
	if len(got) != 1 {
		t.Fatalf("Expected a single span, got %q", got)
	}
}

func TestSplitSentences_NoTerminator(t *testing.T) {
	got := SplitSentences("  a heading without punctuation\n\n  ")
	if len(got) != 1 || got[0] != "a heading without punctuation" {
		t.Errorf("Expected the whole blob as one span, got %q", got)
	}

	if got := SplitSentences("   "); len(got) != 0 {
		t.Errorf("Expected no spans for blank text, got %q", got)
	}
}

func TestSplitSentences_NormalizesInnerWhitespace(t *testing.T) {
	got := SplitSentences("The brake\n controller shall\t\tengage.   Then it stops.")
	if got[0] != "The brake controller shall engage." {
		t.Errorf("Unexpected first sentence: %q", got[0])
	}
}

func TestSegmenter_FiltersByIndicatorAndLength(t *testing.T) {
	s := NewSegmenter(nil, DefaultMinLen, DefaultMaxLen)

	text := "Intro text here. The system shall log all faults. Short shall. " +
		"The operator must acknowledge every alarm within ten seconds. It is sunny today."

	got := s.Segment(text)
	want := []string{
		"The system shall log all faults.",
		"The operator must acknowledge every alarm within ten seconds.",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSegmenter_MaxLength(t *testing.T) {
	s := NewSegmenter(nil, 5, 40)

	long := "The system shall " + strings.Repeat("really ", 10) + "work."
	if got := s.Segment(long); len(got) != 0 {
		t.Errorf("Expected long sentence to be rejected, got %q", got)
	}
}

func TestSegmenter_DeduplicatesCandidates(t *testing.T) {
	s := NewSegmenter(nil, DefaultMinLen, DefaultMaxLen)

	got := s.Segment("The unit shall reboot. The unit shall reboot. The unit shall halt.")
	if len(got) != 2 {
		t.Errorf("Expected 2 unique candidates, got %q", got)
	}
}

func TestSegmenter_NoMatchIsEmpty(t *testing.T) {
	s := NewSegmenter(nil, DefaultMinLen, DefaultMaxLen)

	got := s.Segment("Nothing normative is said in this paragraph at all")
	if len(got) != 0 {
		t.Errorf("Expected no candidates, got %q", got)
	}
}

func TestSegmenter_CustomIndicator(t *testing.T) {
	s := NewSegmenter(regexp.MustCompile(`(?i)\bwill\b`), 1, 100)

	got := s.Segment("The app will restart. The app shall restart.")
	if len(got) != 1 || got[0] != "The app will restart." {
		t.Errorf("Expected only the 'will' sentence, got %q", got)
	}
}

func TestNewSegmenterFromPattern_Invalid(t *testing.T) {
	if _, err := NewSegmenterFromPattern("(unclosed", 1, 10); err == nil {
		t.Fatal("Expected error for invalid pattern")
	}

	s, err := NewSegmenterFromPattern("", 1, 100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !s.Accept("It must work") {
		t.Error("Expected default indicator to be used for empty pattern")
	}
}

func TestSegmenter_LengthCountsCharacters(t *testing.T) {
	// 15 characters, 17 bytes
	s := NewSegmenter(nil, 15, 15)
	span := "Él shall çorer."
	if !s.Accept(span) {
		t.Errorf("Expected %q (15 runes) to be accepted", span)
	}
}

func TestSegmenter_UnboundedMaxLength(t *testing.T) {
	seg := NewSegmenter(nil, 6, 0)
	long := "The controller shall " + strings.Repeat("verify ", 200) + "inputs."
	if !seg.Accept(long) {
		t.Error("Expected long span to pass with an unbounded maximum")
	}
	if seg.Accept("shall") {
		t.Error("Expected span below the minimum to be rejected")
	}
}

func TestDefaultIndicator_UnicodeWords(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"The valve shall close.", true},
		{"Shall the valve close", true},
		{"must", true},
		{"The valve shallé close.", false},
		{"The valve éshall close.", false},
		{"The valve shall_not close.", false},
		{"Le système shall démarrer.", true},
	}

	for _, tt := range tests {
		if got := DefaultIndicator.MatchString(tt.text); got != tt.want {
			t.Errorf("DefaultIndicator.MatchString(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
