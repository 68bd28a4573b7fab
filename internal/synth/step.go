package synth

import (
	"strings"

	"golang.org/x/text/cases"
)

// Step is one normalized unit of scenario text. Rules match against the
// case-folded form; literal values are always lifted from the original.
type Step struct {
	Text   string
	folded string
}

// NewStep builds a step from raw text. Whitespace-only text is not a step.
func NewStep(text string) (Step, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Step{}, false
	}
	return Step{Text: text, folded: fold(text)}, true
}

// fold case-folds text for keyword matching. Casers carry state, so each
// call gets its own.
func fold(text string) string {
	return cases.Fold().String(text)
}

// Folded returns the case-folded text used for keyword matching.
func (s Step) Folded() string { return s.folded }

// Contains reports whether the folded text contains any of the keywords.
// Keywords are expected in lower case.
func (s Step) Contains(keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s.folded, k) {
			return true
		}
	}
	return false
}

// Literal returns the first quoted literal in the original text.
func (s Step) Literal() (string, bool) {
	return QuotedLiteral(s.Text)
}

// LiteralOr returns the first quoted literal or def when there is none.
func (s Step) LiteralOr(def string) string {
	if v, ok := s.Literal(); ok {
		return v
	}
	return def
}
