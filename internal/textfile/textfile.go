// Package textfile reads text files of unknown encoding.
//
// Candidate encodings are tried in a fixed priority order: strict UTF-8
// first, then UTF-8 with a byte order mark, then the legacy single-byte
// code pages that cover Hungarian diacritics (ISO-8859-2, Windows-1250).
// A candidate succeeds only if the whole byte sequence decodes cleanly
// AND the decoded text is non-empty after stripping whitespace.
package textfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names as reported to callers.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingISO88592    = "iso-8859-2"
	EncodingWindows1250 = "windows-1250"
)

// utf8BOM is the UTF-8 byte order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidate is one entry in the encoding priority list.
// decode returns an error when the bytes are not valid in this encoding.
type candidate struct {
	name   string
	decode func(raw []byte) (string, error)
}

// candidates is the fixed priority order. Order matters: the first
// candidate that decodes to non-empty text wins.
var candidates = []candidate{
	{EncodingUTF8, decodeUTF8},
	{EncodingUTF8BOM, decodeUTF8BOM},
	{EncodingISO88592, charmapDecoder(charmap.ISO8859_2)},
	{EncodingWindows1250, charmapDecoder(charmap.Windows1250)},
}

// Read reads the file at path and decodes it using the first candidate
// encoding that yields non-empty text. It returns the decoded text with
// surrounding whitespace stripped, and the name of the encoding used.
// Returns ErrUnreadable when every candidate fails.
func Read(path string) (text, encoding string, err error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is the user-specified input file
	if err != nil {
		return "", "", fmt.Errorf("cannot read input file: %w", err)
	}
	return Decode(raw)
}

// Decode resolves the encoding of raw and returns the decoded text.
// Exposed separately from Read so the resolution order can be tested
// without touching the filesystem.
func Decode(raw []byte) (text, encoding string, err error) {
	for _, c := range candidates {
		decoded, err := c.decode(raw)
		if err != nil {
			continue
		}
		decoded = strings.TrimSpace(decoded)
		if decoded == "" {
			// Whitespace-only output counts as a failed candidate,
			// not a successful decode.
			continue
		}
		return decoded, c.name, nil
	}
	return "", "", ErrUnreadable
}

// decodeUTF8 decodes strictly valid UTF-8 without a BOM.
// A leading BOM is rejected here so the utf-8-sig candidate claims it
// and the marker never leaks into the text.
func decodeUTF8(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return "", fmt.Errorf("byte order mark present")
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("invalid UTF-8 sequence")
	}
	return string(raw), nil
}

// decodeUTF8BOM decodes UTF-8 with a mandatory leading BOM, stripping it.
func decodeUTF8BOM(raw []byte) (string, error) {
	if !bytes.HasPrefix(raw, utf8BOM) {
		return "", fmt.Errorf("byte order mark missing")
	}
	body := raw[len(utf8BOM):]
	if !utf8.Valid(body) {
		return "", fmt.Errorf("invalid UTF-8 sequence after byte order mark")
	}
	return string(body), nil
}

// charmapDecoder adapts a single-byte charmap into a strict decode
// function. The x/text charmap decoders substitute U+FFFD for bytes the
// code page does not define, so the replacement rune is treated as a
// decode failure.
func charmapDecoder(cm *charmap.Charmap) func(raw []byte) (string, error) {
	return func(raw []byte) (string, error) {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", fmt.Errorf("byte not defined in %s", cm)
		}
		return string(decoded), nil
	}
}
