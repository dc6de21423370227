package cli

import (
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kzsfluxus/text-to-speech/internal/config"
	"github.com/kzsfluxus/text-to-speech/internal/synth"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in
// isolation. All fields have production defaults via DefaultEnv().
type Env struct {
	// I/O and environment
	Stderr    io.Writer
	Getenv    func(string) string
	MkdirTemp func(dir, pattern string) (string, error)

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	SynthesizerFactory SynthesizerFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// SpeechService bundles the two capabilities the pipeline needs from the
// synthesis collaborator: per-chunk synthesis and model enumeration for
// diagnostics.
type SpeechService interface {
	synth.Synthesizer
	synth.ModelLister
}

// SynthesizerFactory creates the speech service for a given API key.
// Construction is done once per run; the expensive model state lives on
// the remote side and must never be re-probed per chunk.
type SynthesizerFactory interface {
	NewSynthesizer(apiKey string, opts ...synth.Option) SpeechService
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithMkdirTemp sets the temp directory creator.
func WithMkdirTemp(fn func(dir, pattern string) (string, error)) EnvOption {
	return func(e *Env) {
		e.MkdirTemp = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithSynthesizerFactory sets the synthesizer factory.
func WithSynthesizerFactory(f SynthesizerFactory) EnvOption {
	return func(e *Env) {
		e.SynthesizerFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		MkdirTemp:          os.MkdirTemp,
		ConfigLoader:       &defaultConfigLoader{},
		SynthesizerFactory: &defaultSynthesizerFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultSynthesizerFactory implements SynthesizerFactory using OpenAI.
type defaultSynthesizerFactory struct{}

func (defaultSynthesizerFactory) NewSynthesizer(apiKey string, opts ...synth.Option) SpeechService {
	client := openai.NewClient(apiKey)
	return synth.NewOpenAISynthesizer(client, opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ SynthesizerFactory = (*defaultSynthesizerFactory)(nil)
	_ SpeechService      = (*synth.OpenAISynthesizer)(nil)
)
