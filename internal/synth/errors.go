package synth

import "errors"

// ErrSynthesis indicates the speech synthesis collaborator failed,
// either loading the model or converting a chunk.
var ErrSynthesis = errors.New("speech synthesis failed")
