package text

import "errors"

// ErrEmptyText indicates the input normalized to nothing.
var ErrEmptyText = errors.New("text is empty")

// ErrChunkingFailed indicates the chunker violated its own invariant
// (non-empty input must always yield at least one chunk) or was called
// with an invalid size. Treated as an internal failure.
var ErrChunkingFailed = errors.New("text chunking failed")
