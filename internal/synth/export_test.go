package synth

// NewWithClient constructs an OpenAISynthesizer around an injected
// client, exposed for black-box tests.
func NewWithClient(client speechClient, opts ...Option) *OpenAISynthesizer {
	return newOpenAISynthesizer(client, opts...)
}

// SpeechClient re-exports the private client interface for test mocks.
type SpeechClient = speechClient

// ClassifyError re-exports error classification for testing.
var ClassifyError = classifyError
