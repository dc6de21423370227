package cli

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/kzsfluxus/text-to-speech/internal/config"
	"github.com/kzsfluxus/text-to-speech/internal/synth"
	"github.com/kzsfluxus/text-to-speech/internal/text"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// ---------------------------------------------------------------------------
// Mock SpeechService + SynthesizerFactory
// ---------------------------------------------------------------------------

type mockSpeechService struct {
	SynthesizeFunc      func(ctx context.Context, chunk text.Chunk, dstPath string) error
	AvailableModelsFunc func(ctx context.Context) ([]string, error)

	mu              sync.Mutex
	synthesizeCalls []text.Chunk
}

func (m *mockSpeechService) Synthesize(ctx context.Context, chunk text.Chunk, dstPath string) error {
	m.mu.Lock()
	m.synthesizeCalls = append(m.synthesizeCalls, chunk)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, chunk, dstPath)
	}
	return os.WriteFile(dstPath, testWAVBytes(64), 0o600)
}

func (m *mockSpeechService) AvailableModels(ctx context.Context) ([]string, error) {
	if m.AvailableModelsFunc != nil {
		return m.AvailableModelsFunc(ctx)
	}
	return nil, nil
}

func (m *mockSpeechService) SynthesizeCalls() []text.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]text.Chunk(nil), m.synthesizeCalls...)
}

type mockSynthesizerFactory struct {
	service *mockSpeechService

	mu       sync.Mutex
	apiKeys  []string
	lastOpts []synth.Option
}

func (m *mockSynthesizerFactory) NewSynthesizer(apiKey string, opts ...synth.Option) SpeechService {
	m.mu.Lock()
	m.apiKeys = append(m.apiKeys, apiKey)
	m.lastOpts = opts
	m.mu.Unlock()

	if m.service == nil {
		m.service = &mockSpeechService{}
	}
	return m.service
}

func (m *mockSynthesizerFactory) APIKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.apiKeys...)
}

// Compile-time interface checks.
var (
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ SpeechService      = (*mockSpeechService)(nil)
	_ SynthesizerFactory = (*mockSynthesizerFactory)(nil)
)

// ---------------------------------------------------------------------------
// Test fixtures
// ---------------------------------------------------------------------------

// testWAVBytes builds a minimal mono 16-bit 24kHz WAV stream so mocked
// synthesis output survives the pipeline's parse and merge steps.
func testWAVBytes(dataSize int) []byte {
	var fmtPayload [16]byte
	binary.LittleEndian.PutUint16(fmtPayload[0:2], 1)
	binary.LittleEndian.PutUint16(fmtPayload[2:4], 1)
	binary.LittleEndian.PutUint32(fmtPayload[4:8], 24000)
	binary.LittleEndian.PutUint32(fmtPayload[8:12], 48000)
	binary.LittleEndian.PutUint16(fmtPayload[12:14], 2)
	binary.LittleEndian.PutUint16(fmtPayload[14:16], 16)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+16+8+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	buf.Write(fmtPayload[:])
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// testEnv returns an Env wired with mocks plus the mocks for assertions.
// The API key is present by default; override getenv to remove it.
func testEnv() (*Env, *mockConfigLoader, *mockSynthesizerFactory) {
	loader := &mockConfigLoader{}
	factory := &mockSynthesizerFactory{service: &mockSpeechService{}}
	env := &Env{
		Stderr: &syncBuffer{},
		Getenv: func(key string) string {
			if key == EnvOpenAIAPIKey {
				return "sk-test"
			}
			return ""
		},
		MkdirTemp:          os.MkdirTemp,
		ConfigLoader:       loader,
		SynthesizerFactory: factory,
	}
	return env, loader, factory
}
