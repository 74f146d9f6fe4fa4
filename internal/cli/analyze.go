package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/server"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [dream]",
		Short: "Analyze one dream and print the JSON response",
		Long: `Run a single dream through the configured binding and print the response
body the HTTP endpoint would return. With no argument, or "-", the dream is
read from standard input.

Examples:
  dreamscope analyze "I was flying over a city"
  echo "I lost my teeth" | dreamscope analyze`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			return runAnalyze(cmd, cfg, prompt)
		},
	}
	return cmd
}

func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, prompt string) error {
	logger := zap.NewNop()
	analyzer, shape, err := server.NewAnalyzer(cfg, newBindings(cfg, logger))
	if err != nil {
		return err
	}

	trimmed, err := analyzer.Validate(dream.DreamRequest{DreamPrompt: &prompt})
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(cmd.Context(), trimmed)
	if err != nil {
		var bindingErr *dream.BindingError
		if errors.As(err, &bindingErr) {
			return fmt.Errorf("failed to get AI binding: %w", err)
		}
		return fmt.Errorf("inference failed: %w", err)
	}

	out, err := sonic.ConfigStd.MarshalIndent(shape.Render(result.Text), "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(out)))
	return err
}
