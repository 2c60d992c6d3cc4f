package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word boundaries that count every Unicode letter and digit as part of a word;
// \b in RE2 only knows ASCII
const (
	WordStart = `(?:^|[^\p{L}\p{N}_])`
	WordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// WordsPattern returns a case-insensitive pattern matching any of the
// alternatives as a whole word. Only use it with MatchString, the match
// includes the neighbouring characters.
func WordsPattern(alternatives string) string {
	return `(?i)` + WordStart + `(?:` + alternatives + `)` + WordEnd
}

// MustCompileWords compiles WordsPattern(alternatives)
func MustCompileWords(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(WordsPattern(alternatives))
}

// DefaultIndicator matches sentences that state a requirement
var DefaultIndicator = MustCompileWords(`shall|should|must`)

// Default length bounds for candidate sentences (in characters)
const (
	DefaultMinLen = 15
	DefaultMaxLen = 500
)

// Normalize collapses whitespace runs to a single space and trims the result
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Segmenter turns a plain-text blob into requirement candidates
type Segmenter struct {
	indicator *regexp.Regexp
	minLen    int
	maxLen    int
}

// NewSegmenter creates a segmenter with the given indicator pattern and length bounds.
// A nil indicator falls back to DefaultIndicator.
func NewSegmenter(indicator *regexp.Regexp, minLen, maxLen int) *Segmenter {
	if indicator == nil {
		indicator = DefaultIndicator
	}
	return &Segmenter{
		indicator: indicator,
		minLen:    minLen,
		maxLen:    maxLen,
	}
}

// NewSegmenterFromPattern compiles pattern and creates a segmenter
func NewSegmenterFromPattern(pattern string, minLen, maxLen int) (*Segmenter, error) {
	if pattern == "" {
		return NewSegmenter(nil, minLen, maxLen), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile indicator %q: %w", pattern, err)
	}
	return NewSegmenter(re, minLen, maxLen), nil
}

// Segment splits text into sentences and keeps the deduplicated requirement candidates
func (s *Segmenter) Segment(text string) []string {
	var keep []string
	for _, sentence := range SplitSentences(text) {
		if s.Accept(sentence) {
			keep = append(keep, sentence)
		}
	}
	return DedupeStrings(keep)
}

// Accept reports whether an already normalized span is a candidate.
// A non-positive maxLen leaves the length unbounded above.
func (s *Segmenter) Accept(span string) bool {
	n := utf8.RuneCountInString(span)
	if n < s.minLen || (s.maxLen > 0 && n > s.maxLen) {
		return false
	}
	return s.indicator.MatchString(span)
}

// SplitSentences splits text after '.', '?' or '!' when the terminator is followed
// by whitespace and then an uppercase letter or digit. Each span is normalized;
// empty spans are dropped. Text without a boundary comes back as one span.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !isSentenceStart(runes[j]) {
			continue
		}

		sentences = appendSpan(sentences, runes[start:i+1])
		start = j
		i = j - 1
	}

	return appendSpan(sentences, runes[start:])
}

func appendSpan(sentences []string, span []rune) []string {
	if s := Normalize(string(span)); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// isSentenceStart accepts ASCII uppercase letters and digits only
func isSentenceStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
