// Package lang validates language codes and derives the marker used to
// filter model listings for a target language.
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains the ISO 639-1 codes this tool knows how to
// prepare text for. Not exhaustive; covers the languages the symbol
// substitution tables and diagnostics are tuned against.
var validLanguages = map[string]bool{
	"cs": true, // Czech
	"de": true, // German
	"en": true, // English
	"es": true, // Spanish
	"fr": true, // French
	"hr": true, // Croatian
	"hu": true, // Hungarian
	"it": true, // Italian
	"nl": true, // Dutch
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"sk": true, // Slovak
	"sl": true, // Slovenian
	"sv": true, // Swedish
}

// Normalize normalizes a language code to lowercase with hyphen
// separator: "hu_HU", "HU-hu", "hu-HU" -> "hu-hu".
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// Validate checks a language code. Accepts ISO 639-1 codes ("hu") and
// locales ("hu-HU"). Empty is valid and means the default language.
func Validate(code string) error {
	if code == "" {
		return nil
	}
	if !validLanguages[BaseCode(code)] {
		return fmt.Errorf("language code %q not recognized (use ISO 639-1 codes like 'hu', 'en'): %w",
			code, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the ISO 639-1 base code from a locale.
// Examples: "hu-HU" -> "hu", "pt_BR" -> "pt", "en" -> "en".
func BaseCode(code string) string {
	normalized := Normalize(code)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// Marker returns the substring used to filter model identifiers for a
// language, mirroring how model catalogs embed the language code
// (e.g. "tts_models/hu/css10/vits" contains "hu").
func Marker(code string) string {
	return BaseCode(code)
}

// DisplayName returns a human-readable name for the languages this tool
// targets, falling back to the code itself.
func DisplayName(code string) string {
	names := map[string]string{
		"cs": "Czech",
		"de": "German",
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"hr": "Croatian",
		"hu": "Hungarian",
		"it": "Italian",
		"nl": "Dutch",
		"pl": "Polish",
		"pt": "Portuguese",
		"ro": "Romanian",
		"sk": "Slovak",
		"sl": "Slovenian",
		"sv": "Swedish",
	}
	if name, ok := names[BaseCode(code)]; ok {
		return name
	}
	return code
}
