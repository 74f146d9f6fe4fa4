// Package cli provides the command-line interface for the dream analysis service.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/GriffinCanCode/dreamscope/backend/internal/inference"
	"github.com/GriffinCanCode/dreamscope/backend/internal/infrastructure/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "1.0.0"

// newBindings builds the binding source; tests replace it.
var newBindings = func(cfg *config.Config, logger *zap.Logger) dream.BindingSource {
	return inference.NewFromConfig(cfg, logger)
}

// NewRootCmd creates the dreamscope command tree.
func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "dreamscope",
		Short: "Dream analysis API backed by a hosted language model",
		Long: `Dreamscope accepts a short description of a dream, asks a language model
for an interpretation, and returns the analysis as JSON.

Configuration comes from the environment; a .env file is read first when present.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(newServeCmd(), newAnalyzeCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadEnvFile loads path into the environment without overriding set variables.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
