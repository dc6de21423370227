package text

import (
	"fmt"
	"regexp"
	"strings"
)

// Chunk is a bounded-length slice of normalized text submitted to
// synthesis as one unit.
type Chunk struct {
	Index   int    // Zero-based index for ordering.
	Content string // Never empty.
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d (%d chars)", c.Index, len([]rune(c.Content)))
}

// sentenceJoiner reconnects sentences inside a chunk. The split below
// discards terminator punctuation, so it is reinserted here.
const sentenceJoiner = ". "

// sentenceEnd matches a run of sentence terminators followed by
// whitespace or the end of the text.
var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// Split cuts normalized text into chunks of at most maxSize runes,
// preferring sentence boundaries.
//
// Sentences are accumulated greedily: a sentence joins the current chunk
// only if chunk, joiner, and sentence together stay within maxSize.
// A single sentence longer than maxSize is hard-split into consecutive
// slices of exactly maxSize runes; the final short slice continues
// accumulation with the following sentences. Lengths are counted in
// runes, not bytes, so diacritics do not shrink the effective budget.
//
// Any non-empty input yields at least one chunk and no chunk is empty.
func Split(s string, maxSize int) ([]Chunk, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrChunkingFailed, maxSize)
	}

	var contents []string
	var current string

	for _, sentence := range sentenceEnd.Split(s, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		// Oversized sentence: flush the buffer, emit fixed-length
		// slices, and keep the remainder as the new buffer.
		if runes := []rune(sentence); len(runes) > maxSize {
			if current != "" {
				contents = append(contents, current)
			}
			for len(runes) > maxSize {
				slice := string(runes[:maxSize])
				runes = runes[maxSize:]
				if strings.TrimSpace(slice) == "" {
					continue
				}
				contents = append(contents, slice)
			}
			current = strings.TrimSpace(string(runes))
			continue
		}

		switch {
		case current == "":
			current = sentence
		case len([]rune(current))+len([]rune(sentence))+len(sentenceJoiner) > maxSize:
			contents = append(contents, current)
			current = sentence
		default:
			current += sentenceJoiner + sentence
		}
	}

	if current != "" {
		contents = append(contents, current)
	}

	if len(contents) == 0 {
		if strings.TrimSpace(s) == "" {
			return nil, ErrEmptyText
		}
		// Non-empty input must always produce at least one chunk.
		return nil, fmt.Errorf("%w: no chunks produced from %d bytes of text", ErrChunkingFailed, len(s))
	}

	chunks := make([]Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = Chunk{Index: i, Content: content}
	}
	return chunks, nil
}
