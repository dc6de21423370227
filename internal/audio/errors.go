package audio

import "errors"

// ErrInvalidWAV indicates a file is not a parseable RIFF/WAVE stream.
var ErrInvalidWAV = errors.New("not a valid WAV file")

// ErrFormatMismatch indicates segments being merged disagree on a format
// parameter (sample rate, channel count, or sample width).
var ErrFormatMismatch = errors.New("audio format mismatch")

// ErrNoSegments indicates an assembly was requested with no input segments.
var ErrNoSegments = errors.New("no audio segments to assemble")
