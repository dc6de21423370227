// Package synth adapts an external text-to-speech capability for the
// conversion pipeline. The production implementation talks to OpenAI's
// speech endpoint; the model is loaded and owned by the remote service,
// so the adapter is constructed once and passed by reference.
package synth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/kzsfluxus/text-to-speech/internal/apierr"
	"github.com/kzsfluxus/text-to-speech/internal/audio"
	"github.com/kzsfluxus/text-to-speech/internal/text"
)

// Synthesis defaults.
const (
	// DefaultModel is the cost-effective OpenAI speech model.
	DefaultModel = string(openai.TTSModel1)

	// DefaultVoice is the default synthesis voice.
	DefaultVoice = string(openai.VoiceAlloy)

	// DefaultSpeed is the default speaking speed multiplier.
	DefaultSpeed = 1.0

	// MaxRecommendedParallel caps concurrent synthesis requests.
	// The collaborator is treated as a scarce exclusive resource, so the
	// ceiling is deliberately low.
	MaxRecommendedParallel = 4
)

// Synthesizer converts one text chunk into one audio segment file.
type Synthesizer interface {
	// Synthesize writes the speech audio for chunk to dstPath as a WAV
	// file. Failures wrap ErrSynthesis.
	Synthesize(ctx context.Context, chunk text.Chunk, dstPath string) error
}

// ModelLister enumerates model identifiers for diagnostic reporting.
type ModelLister interface {
	AvailableModels(ctx context.Context) ([]string, error)
}

// speechClient is the subset of the OpenAI client used by the adapter.
// *openai.Client implements it implicitly; tests inject mocks.
type speechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Compile-time interface compliance checks.
var (
	_ Synthesizer  = (*OpenAISynthesizer)(nil)
	_ ModelLister  = (*OpenAISynthesizer)(nil)
	_ speechClient = (*openai.Client)(nil)
)

// OpenAISynthesizer synthesizes speech via OpenAI's /v1/audio/speech
// endpoint. The response format is fixed to WAV so segments can be
// merged without transcoding.
type OpenAISynthesizer struct {
	client speechClient
	model  string
	voice  string
	speed  float64
}

// Option configures an OpenAISynthesizer.
type Option func(*OpenAISynthesizer)

// WithModel selects the speech model identifier.
func WithModel(model string) Option {
	return func(s *OpenAISynthesizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithVoice selects the synthesis voice.
func WithVoice(voice string) Option {
	return func(s *OpenAISynthesizer) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// WithSpeed sets the speaking speed multiplier (0.25-4.0 per API docs).
func WithSpeed(speed float64) Option {
	return func(s *OpenAISynthesizer) {
		if speed > 0 {
			s.speed = speed
		}
	}
}

// NewOpenAISynthesizer creates a synthesizer backed by the given client.
func NewOpenAISynthesizer(client *openai.Client, opts ...Option) *OpenAISynthesizer {
	return newOpenAISynthesizer(client, opts...)
}

func newOpenAISynthesizer(client speechClient, opts ...Option) *OpenAISynthesizer {
	s := &OpenAISynthesizer{
		client: client,
		model:  DefaultModel,
		voice:  DefaultVoice,
		speed:  DefaultSpeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize converts one chunk to speech and writes it to dstPath.
// There are no retries: a failed call propagates immediately so a slow,
// billed request is never repeated without the user noticing.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, chunk text.Chunk, dstPath string) error {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          chunk.Content,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          s.speed,
	}

	resp, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSynthesis, classifyError(err))
	}
	defer func() { _ = resp.Close() }()

	out, err := os.Create(dstPath) // #nosec G304 -- dstPath is a pipeline-owned temp file
	if err != nil {
		return fmt.Errorf("cannot create segment file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = out.Close() }()
		_, err := io.Copy(out, resp)
		return err
	}()

	if writeErr != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("%w: reading audio response: %w", ErrSynthesis, writeErr)
	}
	return nil
}

// AvailableModels returns all model identifiers visible to the API key,
// sorted for deterministic output.
func (s *OpenAISynthesizer) AvailableModels(ctx context.Context) ([]string, error) {
	list, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	slices.Sort(ids)
	return ids, nil
}

// FilterModels returns the identifiers containing marker,
// case-insensitively. Used to narrow the diagnostic model listing to a
// target language or capability.
func FilterModels(ids []string, marker string) []string {
	if marker == "" {
		return ids
	}
	marker = strings.ToLower(marker)
	var filtered []string
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), marker) {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// classifyError maps OpenAI API errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion arrives with the same status as a rate
			// limit but requires user action, so keep them distinct.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// SynthesizeAll synthesizes every chunk into dir as segment_NNN.wav and
// returns the segments ordered by chunk index.
//
// maxParallel bounds concurrent requests; with the default of 1 the
// collaborator is used strictly sequentially. Whatever the parallelism,
// results land in an index-addressed slice, so the ordering guarantee
// for the later merge holds regardless of completion order. The first
// failure aborts the whole operation; no partial result is returned.
func SynthesizeAll(
	ctx context.Context,
	chunks []text.Chunk,
	s Synthesizer,
	dir string,
	maxParallel int,
) ([]audio.Segment, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	segments := make([]audio.Segment, len(chunks))
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			dstPath := filepath.Join(dir, fmt.Sprintf("segment_%03d.wav", chunk.Index))
			if err := s.Synthesize(ctx, chunk, dstPath); err != nil {
				return fmt.Errorf("%s: %w", chunk, err)
			}

			info, err := audio.ReadInfo(dstPath)
			if err != nil {
				return fmt.Errorf("%w: %s produced invalid audio: %w", ErrSynthesis, chunk, err)
			}

			segments[i] = audio.Segment{
				Index:  chunk.Index,
				Path:   dstPath,
				Format: info.Format,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return segments, nil
}
