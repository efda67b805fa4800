package main

import (
	"fmt"
	"os"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the calmkit config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Long: `Writes the defaults to the --config path. The API key is never written;
keep it in GEMINI_API_KEY.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationIgnoreBadConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := config.DefaultConfig().Save(configPath); err != nil {
				return err
			}
			p.Check("Wrote %s", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file + environment), key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			shown.Gemini.APIKey = config.MaskKey(cfg.Gemini.APIKey)

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the calmkit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "calmkit %s\n", version)
			return err
		},
	}
}
