package text_test

import (
	"errors"
	"testing"

	"github.com/kzsfluxus/text-to-speech/internal/text"
)

// ---------------------------------------------------------------------------
// DefaultSubstitutions - Locale table selection
// ---------------------------------------------------------------------------

func TestDefaultSubstitutions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		language string
		symbol   string
		want     string
	}{
		{name: "hungarian base code", language: "hu", symbol: "&", want: " és "},
		{name: "hungarian locale", language: "hu-HU", symbol: "@", want: " kukac "},
		{name: "hungarian underscore locale", language: "hu_HU", symbol: "%", want: " százalék "},
		{name: "english fallback", language: "en", symbol: "&", want: " and "},
		{name: "unknown language falls back to english", language: "fi", symbol: "=", want: " equals "},
		{name: "empty language falls back to english", language: "", symbol: "+", want: " plus "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			subs := text.DefaultSubstitutions(tt.language)
			if got := subs[tt.symbol]; got != tt.want {
				t.Errorf("DefaultSubstitutions(%q)[%q] = %q, want %q",
					tt.language, tt.symbol, got, tt.want)
			}
		})
	}
}

func TestDefaultSubstitutions_ReturnsCopy(t *testing.T) {
	t.Parallel()

	subs := text.DefaultSubstitutions("hu")
	subs["&"] = "mutated"

	fresh := text.DefaultSubstitutions("hu")
	if fresh["&"] != " és " {
		t.Error("mutating a returned table must not affect later calls")
	}
}

// ---------------------------------------------------------------------------
// Normalize - Whitespace, newlines, and symbol substitution
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	hu := text.DefaultSubstitutions("hu")

	tests := []struct {
		name  string
		input string
		subs  text.Substitutions
		want  string
	}{
		{
			name:  "whitespace runs collapse to single spaces",
			input: "a   b\t\tc",
			subs:  nil,
			want:  "a b c",
		},
		{
			name:  "newline run becomes sentence boundary",
			input: "első bekezdés\n\nmásodik bekezdés",
			subs:  nil,
			want:  "első bekezdés. második bekezdés",
		},
		{
			name:  "single newline also becomes sentence boundary",
			input: "egy\nkettő",
			subs:  nil,
			want:  "egy. kettő",
		},
		{
			name:  "CRLF line endings are unified first",
			input: "egy\r\nkettő\rhárom",
			subs:  nil,
			want:  "egy. kettő. három",
		},
		{
			name:  "hungarian symbol substitution",
			input: "kenyér & tej",
			subs:  hu,
			want:  "kenyér és tej",
		},
		{
			name:  "email address symbols are spelled out",
			input: "pelda@ceg.hu",
			subs:  hu,
			want:  "pelda kukac ceg.hu",
		},
		{
			name:  "multiple symbols in one text",
			input: "50% + 50% = 100%",
			subs:  hu,
			want:  "50 százalék plusz 50 százalék egyenlő 100 százalék",
		},
		{
			name:  "comparison symbols",
			input: "a < b > c",
			subs:  hu,
			want:  "a kisebb mint b nagyobb mint c",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "  \n szöveg \t ",
			subs:  hu,
			want:  "szöveg",
		},
		{
			name:  "no substitutions leaves symbols alone",
			input: "a & b",
			subs:  nil,
			want:  "a & b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := text.Normalize(tt.input, tt.subs)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_SinglePass(t *testing.T) {
	t.Parallel()

	// A replacement phrase containing another table symbol must not be
	// substituted again in the same pass.
	subs := text.Substitutions{
		"&": " and & more ",
		"@": " at ",
	}

	got, err := text.Normalize("x&y", subs)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := "x and & more y"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	hu := text.DefaultSubstitutions("hu")
	inputs := []string{
		"kenyér & tej\n\núj sor",
		"  50% kész  ",
		"sima szöveg pont nélkül",
		"a\r\nb\rc",
	}

	for _, input := range inputs {
		once, err := text.Normalize(input, hu)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", input, err)
		}
		twice, err := text.Normalize(once, hu)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) error = %v", input, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalize_EmptyText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := text.Normalize(tt.input, nil)
			if !errors.Is(err, text.ErrEmptyText) {
				t.Errorf("Normalize() error = %v, want ErrEmptyText", err)
			}
		})
	}
}
