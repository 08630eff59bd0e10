package dua

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNoSections is returned when a reply carries none of the expected markers.
var ErrNoSections = errors.New("dua: reply has no recognizable sections")

// Sections holds the raw fields pulled from a model reply.
type Sections struct {
	Arabic          string
	Transliteration string
	Translation     string
}

const (
	salvageLimit = 200

	sectionLabel = `(arabic|transliteration|translation[^:\n*]*?)`
)

var (
	// Matches bold headings such as "**Arabic:**" or "**Translation in Urdu**:"
	// anywhere, and plain "Arabic:" only at line start.
	markerRe = regexp.MustCompile(`(?i)\*\*[ \t]*` + sectionLabel + `[ \t]*(?::[ \t]*\*\*|\*\*[ \t]*:)` +
		`|(?m:^)[ \t]*\**[ \t]*` + sectionLabel + `[ \t]*\**[ \t]*:[ \t]*\**`)
	// A section also ends at a blank line or another bold heading.
	endRe    = regexp.MustCompile(`\n[ \t]*(\n|\*\*)`)
	spaceRe  = regexp.MustCompile(`\s+`)
	arabicRe = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+`)
)

// ParseReply extracts the three sections from a model reply. Each section
// ends at the next marker or the first blank line. Missing sections are "".
func ParseReply(reply string) (Sections, error) {
	reply = strings.ReplaceAll(reply, "\r\n", "\n")
	locs := markerRe.FindAllStringSubmatchIndex(reply, -1)
	if len(locs) == 0 {
		return Sections{}, ErrNoSections
	}

	var s Sections
	for i, loc := range locs {
		start, stop := loc[2], loc[3]
		if start < 0 {
			start, stop = loc[4], loc[5]
		}
		label := strings.ToLower(reply[start:stop])
		end := len(reply)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimLeft(reply[loc[1]:end], " \t\n")
		if idx := endRe.FindStringIndex(body); idx != nil {
			body = body[:idx[0]]
		}
		body = CleanText(body)

		switch {
		case label == "arabic":
			if s.Arabic == "" {
				s.Arabic = body
			}
		case label == "transliteration":
			if s.Transliteration == "" {
				s.Transliteration = body
			}
		case strings.HasPrefix(label, "translation"):
			if s.Translation == "" {
				s.Translation = body
			}
		}
	}
	return s, nil
}

// CleanText collapses whitespace runs and strips markdown emphasis.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Salvage builds sections from a reply that could not be parsed: the longest
// Arabic run (or the default canned Arabic) and a truncated translation.
func Salvage(reply string) Sections {
	arabic := generalDua.Arabic
	longest := 0
	for _, m := range arabicRe.FindAllString(reply, -1) {
		if n := utf8.RuneCountInString(m); n > longest {
			longest = n
			arabic = m
		}
	}

	translation := reply
	if utf8.RuneCountInString(reply) > salvageLimit {
		translation = string([]rune(reply)[:salvageLimit]) + "..."
	}
	return Sections{Arabic: arabic, Translation: translation}
}
