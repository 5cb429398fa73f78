package screening

import "strings"

// QualityClassifier decides whether a server rejection message describes an
// image-quality problem (route to QualityRejected) rather than a hard
// failure. The service communicates this only through its error text, so the
// policy is an ordered list of matchers that can be swapped out without
// touching the orchestration logic.
type QualityClassifier interface {
	IsQualityIssue(message string) bool
}

// PhraseMatcher matches a single case-insensitive substring
type PhraseMatcher struct {
	Phrase string
}

// Match reports whether the phrase occurs in the message
func (m PhraseMatcher) Match(message string) bool {
	return strings.Contains(strings.ToLower(message), strings.ToLower(m.Phrase))
}

// PhraseClassifier applies matchers in order and reports a quality issue on
// the first hit.
type PhraseClassifier struct {
	matchers []PhraseMatcher
}

// NewPhraseClassifier builds a classifier from an ordered phrase list
func NewPhraseClassifier(phrases ...string) *PhraseClassifier {
	matchers := make([]PhraseMatcher, 0, len(phrases))
	for _, p := range phrases {
		matchers = append(matchers, PhraseMatcher{Phrase: p})
	}
	return &PhraseClassifier{matchers: matchers}
}

// IsQualityIssue implements QualityClassifier
func (c *PhraseClassifier) IsQualityIssue(message string) bool {
	if message == "" {
		return false
	}
	for _, m := range c.matchers {
		if m.Match(message) {
			return true
		}
	}
	return false
}

// DefaultQualityClassifier carries the phrases the analysis service is known
// to use for unusable images.
func DefaultQualityClassifier() *PhraseClassifier {
	return NewPhraseClassifier(
		"not clear",
		"not bright",
		"quality",
		"too dark",
		"too dim",
		"blurry",
	)
}
