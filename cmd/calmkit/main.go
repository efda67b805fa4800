package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"calmkit/internal/config"
	"calmkit/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.3.0"

// annotationIgnoreBadConfig lets a command run with defaults when the config
// file cannot be loaded or validated.
const annotationIgnoreBadConfig = "calmkit/ignore-bad-config"

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string

	// Loaded in PersistentPreRunE
	cfg  *config.Config
	logs *logging.Logger
)

// newRootCmd builds the command tree. Flags are rebound on every call.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "calmkit",
		Short: "Developer tooling for the CalMahAhh Android app",
		Long: `calmkit bundles the chores around the CalMahAhh app:

  - generating launcher icons for every Android density from one image
  - checking that the Gemini API key, endpoint and models work
  - running the app's meal-photo analysis from the command line

The Gemini key is read from GEMINI_API_KEY (or gemini.api_key in the
config file). It is never printed in full.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logs != nil {
				_ = logs.Sync()
			}
		},
	}

	verbose, apiKey, configPath = false, "", config.DefaultPath
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (prefer GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")

	rootCmd.AddCommand(
		newIconsCmd(),
		newModelsCmd(),
		newProbeCmd(),
		newDiagnoseCmd(),
		newAnalyzeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads config and builds the logger for every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	tolerant := cmd.Annotations[annotationIgnoreBadConfig] != ""

	var err error
	cfg, err = config.Load(configPath)
	if err == nil {
		err = cfg.Validate()
		if err != nil {
			err = fmt.Errorf("invalid config %s: %w", configPath, err)
		}
	}
	var configErr error
	if err != nil {
		if !tolerant {
			return err
		}
		configErr = err
		cfg = config.DefaultConfig()
	}
	if apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}

	base, err := logging.New(cfg.Logging, verbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logs = base.With(zap.String("run_id", uuid.NewString()))

	boot := logs.Get(logging.CategoryBoot)
	if configErr != nil {
		boot.Warn("Config unusable, running with defaults",
			zap.String("path", configPath),
			zap.Error(configErr))
	}
	boot.Debug("Config loaded",
		zap.String("path", configPath),
		zap.String("command", cmd.CommandPath()),
		zap.Bool("api_key_set", cfg.Gemini.APIKey != ""))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Error:", err)
		os.Exit(1)
	}
}
