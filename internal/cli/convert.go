package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kzsfluxus/text-to-speech/internal/audio"
	"github.com/kzsfluxus/text-to-speech/internal/config"
	"github.com/kzsfluxus/text-to-speech/internal/format"
	"github.com/kzsfluxus/text-to-speech/internal/lang"
	"github.com/kzsfluxus/text-to-speech/internal/synth"
	"github.com/kzsfluxus/text-to-speech/internal/text"
	"github.com/kzsfluxus/text-to-speech/internal/textfile"
)

// Defaults for the convert command.
const (
	// EnvOpenAIAPIKey is the environment variable holding the API key.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// DefaultOutputName is the output file used when none is given.
	DefaultOutputName = "output.wav"

	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultLanguage selects the substitution table and the diagnostic
	// model filter.
	DefaultLanguage = "hu"
)

// clampParallel constrains concurrent synthesis requests to
// [1, synth.MaxRecommendedParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > synth.MaxRecommendedParallel {
		return synth.MaxRecommendedParallel
	}
	return n
}

// convertFlags holds the flag values for the convert command.
type convertFlags struct {
	chunkSize int
	model     string
	voice     string
	speed     float64
	language  string
	parallel  int
	verbose   bool
}

// ConvertCmd creates the root command: convert a text file to speech.
// The env parameter provides injectable dependencies for testing.
func ConvertCmd(env *Env) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "text-to-speech <input-file> [output-file]",
		Short: "Convert a text file to a speech audio file",
		Long: `Convert a text file to a single speech audio file.

The input encoding is auto-detected (UTF-8, UTF-8 with BOM, ISO-8859-2,
Windows-1250). The text is normalized for speech, split into chunks at
sentence boundaries, synthesized chunk by chunk, and the audio segments
are merged losslessly into one WAV file.

If the output file already exists it is backed up first
(output.wav -> output.backup.wav).`,
		Example: `  text-to-speech szoveg.txt
  text-to-speech szoveg.txt kimenet.wav
  text-to-speech szoveg.txt --chunk-size 500
  text-to-speech notes.md -l en --voice nova`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runConvert(cmd, env, args[0], output, flags)
		},
	}

	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", DefaultChunkSize, "Maximum chunk length in characters")
	cmd.Flags().StringVar(&flags.model, "model", synth.DefaultModel, "Speech model identifier")
	cmd.Flags().StringVar(&flags.voice, "voice", synth.DefaultVoice, "Synthesis voice")
	cmd.Flags().Float64Var(&flags.speed, "speed", synth.DefaultSpeed, "Speaking speed multiplier")
	cmd.Flags().StringVarP(&flags.language, "language", "l", DefaultLanguage, "Input language (ISO 639-1 code)")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 1, "Max concurrent synthesis requests (1-4)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose diagnostic output")

	return cmd
}

// runConvert executes the conversion pipeline:
// read -> normalize -> chunk -> synthesize each -> assemble -> move.
// Validation order: file exists -> chunk size -> language -> config ->
// output path -> API key.
func runConvert(cmd *cobra.Command, env *Env, inputPath, output string, flags convertFlags) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. Input file exists and is a regular file.
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, inputPath)
	}

	// 2. Unusual extensions convert anyway, with a warning.
	warnUnexpectedExtension(env.Stderr, inputPath)

	// 3. Chunk size.
	if flags.chunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, flags.chunkSize)
	}

	// 4. Language.
	if err := lang.Validate(flags.language); err != nil {
		return err
	}

	// 5. Config file defaults for flags the user did not set.
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	if !cmd.Flags().Changed("model") && cfg.Model != "" {
		flags.model = cfg.Model
	}
	if !cmd.Flags().Changed("voice") && cfg.Voice != "" {
		flags.voice = cfg.Voice
	}
	if !cmd.Flags().Changed("language") && cfg.Language != "" {
		if err := lang.Validate(cfg.Language); err != nil {
			return err
		}
		flags.language = cfg.Language
	}

	// 6. Output path.
	output = config.ResolveOutputPath(output, cfg.OutputDir, DefaultOutputName)

	// 7. API key.
	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// 8. Parallel bounds.
	parallel := clampParallel(flags.parallel)

	// === READ & PREPARE TEXT ===

	raw, encoding, err := textfile.Read(inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Read %s (%s encoding, %d characters)\n",
		inputPath, encoding, len([]rune(raw)))

	normalized, err := text.Normalize(raw, text.DefaultSubstitutions(flags.language))
	if err != nil {
		return err
	}

	chunks, err := text.Split(normalized, flags.chunkSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Split text into %d chunks\n", len(chunks))
	if flags.verbose {
		for _, c := range chunks {
			fmt.Fprintf(env.Stderr, "  %s: %s\n", c, preview(c.Content))
		}
	}

	// === SYNTHESIS ===

	svc := env.SynthesizerFactory.NewSynthesizer(apiKey,
		synth.WithModel(flags.model),
		synth.WithVoice(flags.voice),
		synth.WithSpeed(flags.speed),
	)

	// All temporary state lives in one directory removed on every exit
	// path, so neither failure nor interrupt leaks segment files.
	tempDir, err := env.MkdirTemp("", "text-to-speech-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if cleanupErr := os.RemoveAll(tempDir); cleanupErr != nil {
			fmt.Fprintf(env.Stderr, "Warning: failed to clean up temp files: %v\n", cleanupErr)
		}
	}()

	// Back up an existing destination before synthesis begins, so a
	// failed run can never destroy a previous output without a copy.
	if _, err := os.Stat(output); err == nil {
		bak := backupPath(output)
		if err := copyFile(output, bak); err != nil {
			return fmt.Errorf("failed to back up existing output: %w", err)
		}
		fmt.Fprintf(env.Stderr, "Backed up existing output to %s\n", bak)
	}

	fmt.Fprintf(env.Stderr, "Synthesizing %d chunks (model %s, voice %s)...\n",
		len(chunks), flags.model, flags.voice)

	segments, err := synth.SynthesizeAll(ctx, chunks, svc, tempDir, parallel)
	if err != nil {
		if errors.Is(err, synth.ErrSynthesis) {
			reportAvailableModels(cmd, env, svc, flags.language)
		}
		return err
	}

	// === ASSEMBLE & MOVE ===

	assembled := filepath.Join(tempDir, "assembled.wav")
	if err := audio.Assemble(segments, assembled); err != nil {
		return err
	}

	// The destination is only touched here, after a fully successful
	// assembly.
	if err := moveFile(assembled, output); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	reportFileInfo(env, output)
	fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	return nil
}

// preview returns the first few words of a chunk for verbose logging.
func preview(s string) string {
	const max = 60
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// reportAvailableModels prints a best-effort listing of models matching
// the language marker, to help the user pick a valid identifier.
// Failures here are swallowed so they never mask the synthesis error.
func reportAvailableModels(cmd *cobra.Command, env *Env, lister synth.ModelLister, language string) {
	models, err := lister.AvailableModels(cmd.Context())
	if err != nil {
		return
	}

	marker := lang.Marker(language)
	matching := synth.FilterModels(models, marker)
	if len(matching) == 0 {
		fmt.Fprintf(env.Stderr, "No available models match %q\n", marker)
		return
	}

	fmt.Fprintf(env.Stderr, "Available models for %s:\n", lang.DisplayName(language))
	for _, id := range matching {
		fmt.Fprintf(env.Stderr, "  - %s\n", id)
	}
}

// reportFileInfo prints duration, sample rate, and size of the result.
// Reporting is informational; failures only degrade the report.
func reportFileInfo(env *Env, path string) {
	st, err := os.Stat(path)
	if err != nil {
		return
	}

	info, err := audio.ReadInfo(path)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Output size: %s\n", format.Size(st.Size()))
		return
	}

	fmt.Fprintf(env.Stderr, "Duration: %s (%s)\n", format.Duration(info.Duration()), format.Seconds(info.Duration()))
	fmt.Fprintf(env.Stderr, "Sample rate: %d Hz\n", info.Format.SampleRate)
	fmt.Fprintf(env.Stderr, "Size: %s\n", format.Size(st.Size()))
}
