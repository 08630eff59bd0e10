package narration

import (
	"regexp"
	"strings"
)

const (
	// DefaultLimit caps text for the neural and metadata engines.
	DefaultLimit = 1000
	// OfflineLimit caps text for the local engine, which degrades on long input.
	OfflineLimit = 800
)

// IslamicTerms are spelled canonically so engines pronounce them consistently.
var IslamicTerms = []string{
	"Allah", "Muhammad", "Quran", "Bismillah",
	"Alhamdulillah", "Subhanallah", "Mashallah", "Inshallah",
}

var (
	pauseRe = regexp.MustCompile(`([.,:;])`)
	termRes = buildTermPatterns()
)

type termPattern struct {
	re        *regexp.Regexp
	canonical string
}

func buildTermPatterns() []termPattern {
	patterns := make([]termPattern, 0, len(IslamicTerms))
	for _, term := range IslamicTerms {
		alt := regexp.QuoteMeta(term)
		if term == "Quran" {
			alt = `qur'?an`
		}
		patterns = append(patterns, termPattern{
			re:        regexp.MustCompile(`(?i)\b(?:` + alt + `)\b`),
			canonical: term,
		})
	}
	return patterns
}

// Preprocess prepares narration text: truncate to limit runes, add a space
// after sentence punctuation, collapse whitespace and normalize term spelling.
func Preprocess(text string, limit int) string {
	if r := []rune(text); limit > 0 && len(r) > limit {
		text = string(r[:limit])
	}
	text = pauseRe.ReplaceAllString(text, "$1 ")
	text = strings.Join(strings.Fields(text), " ")
	for _, p := range termRes {
		text = p.re.ReplaceAllString(text, p.canonical)
	}
	return text
}
