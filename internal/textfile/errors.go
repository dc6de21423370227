package textfile

import "errors"

// ErrUnreadable indicates no candidate encoding could decode the file
// to non-empty text.
var ErrUnreadable = errors.New("could not decode file with any candidate encoding")
