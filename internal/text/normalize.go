// Package text prepares raw input text for speech synthesis: it
// normalizes whitespace and speech-unfriendly symbols, then splits the
// result into bounded-size chunks along sentence boundaries.
package text

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Substitutions maps literal symbols to their spoken replacement phrase.
// The table is locale-specific; see DefaultSubstitutions.
type Substitutions map[string]string

// hungarianSubstitutions spells out symbols the synthesis model would
// otherwise skip or mispronounce.
var hungarianSubstitutions = Substitutions{
	"&": " és ",
	"@": " kukac ",
	"#": " hashtag ",
	"%": " százalék ",
	"+": " plusz ",
	"=": " egyenlő ",
	"<": " kisebb mint ",
	">": " nagyobb mint ",
}

// englishSubstitutions is the fallback table for non-Hungarian languages.
var englishSubstitutions = Substitutions{
	"&": " and ",
	"@": " at ",
	"#": " hashtag ",
	"%": " percent ",
	"+": " plus ",
	"=": " equals ",
	"<": " less than ",
	">": " greater than ",
}

// DefaultSubstitutions returns the symbol table for a language code.
// Hungarian ("hu", "hu-HU", ...) gets the Hungarian table; everything
// else falls back to English.
func DefaultSubstitutions(language string) Substitutions {
	normalized := strings.ToLower(strings.ReplaceAll(language, "_", "-"))
	if normalized == "hu" || strings.HasPrefix(normalized, "hu-") {
		return maps.Clone(hungarianSubstitutions)
	}
	return maps.Clone(englishSubstitutions)
}

var (
	newlineRun    = regexp.MustCompile(`\n+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize prepares raw text for synthesis:
//
//  1. Line endings are unified, then every run of newlines becomes ". "
//     so paragraph breaks survive as sentence boundaries.
//  2. The substitution table is applied in a single pass over the text.
//     strings.Replacer never re-scans emitted output, so a replacement
//     phrase that itself contains a table symbol is not substituted again.
//  3. Every remaining whitespace run collapses to a single space.
//
// The result is trimmed and guaranteed non-empty; Normalize is
// idempotent. Returns ErrEmptyText when nothing speakable remains.
func Normalize(s string, subs Substitutions) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = newlineRun.ReplaceAllString(s, ". ")

	if len(subs) > 0 {
		// Sorted keys keep the replacer deterministic across runs.
		pairs := make([]string, 0, len(subs)*2)
		for _, symbol := range slices.Sorted(maps.Keys(subs)) {
			pairs = append(pairs, symbol, subs[symbol])
		}
		s = strings.NewReplacer(pairs...).Replace(s)
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}
