package main

import (
	"fmt"
	"strings"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/icons"
	"calmkit/internal/logging"

	"github.com/spf13/cobra"
)

func newIconsCmd() *cobra.Command {
	var source, resDir string

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Generate Android launcher icons from a source image",
		Long: `Resizes one source image to every launcher density and writes
<res>/<mipmap-folder>/ic_launcher.png for each:

  mipmap-mdpi     48x48
  mipmap-hdpi     72x72
  mipmap-xhdpi    96x96
  mipmap-xxhdpi   144x144
  mipmap-xxxhdpi  192x192

Densities, file name and default paths come from the icons section of the
config file. Existing icons are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := icons.OptionsFromConfig(cfg.Icons)
			if source != "" {
				opts.Source = source
			}
			if resDir != "" {
				opts.ResDir = resDir
			}
			return runIcons(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source image (default from config: icons.source)")
	cmd.Flags().StringVarP(&resDir, "res", "r", "", "Android res directory (default from config: icons.res_dir)")
	return cmd
}

func runIcons(cmd *cobra.Command, opts icons.Options) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	report, err := icons.Generate(cmd.Context(), opts, logs.Get(logging.CategoryIcons))
	if report != nil {
		p.Check("Opened %s", report.Source)
		p.Printf("  Original size: (%d, %d)\n", report.Info.Width, report.Info.Height)
		p.Printf("  Format: %s\n", strings.ToUpper(report.Info.Format))
		for _, r := range report.Results {
			p.Check("%dx%d → %s (%d bytes)", r.Density.Size, r.Density.Size, r.Path, r.Bytes)
		}
	}
	if err != nil {
		return fmt.Errorf("icon generation: %w", err)
	}

	p.Println()
	p.Check("All icons generated successfully!")
	return nil
}
