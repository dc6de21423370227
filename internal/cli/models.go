package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kzsfluxus/text-to-speech/internal/lang"
	"github.com/kzsfluxus/text-to-speech/internal/synth"
)

// ModelsCmd creates the models command: list model identifiers visible
// to the configured API key, optionally filtered by language marker.
func ModelsCmd(env *Env) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available speech models",
		Long: `List model identifiers available to the configured API key.

With --language, only identifiers containing the language's marker
substring are shown.`,
		Example: `  text-to-speech models
  text-to-speech models -l hu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd, env, language)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Filter by language (ISO 639-1 code)")

	return cmd
}

// runModels lists models to stdout.
func runModels(cmd *cobra.Command, env *Env, language string) error {
	if err := lang.Validate(language); err != nil {
		return err
	}

	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	svc := env.SynthesizerFactory.NewSynthesizer(apiKey)
	models, err := svc.AvailableModels(cmd.Context())
	if err != nil {
		return err
	}

	if language != "" {
		models = synth.FilterModels(models, lang.Marker(language))
	}

	if len(models) == 0 {
		fmt.Fprintln(env.Stderr, "No models found.")
		return nil
	}

	for _, id := range models {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
