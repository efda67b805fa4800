package main

import (
	"encoding/json"
	"strings"

	"calmkit/cmd/calmkit/ui"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	var asJSON, generateOnly bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the Gemini models available to the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if !asJSON {
				p.Banner("Fetching available Gemini models...", 70)
				printEndpoint(p, client.ModelsEndpoint())
			}

			models, err := client.ListModels(cmd.Context(), cfg.GetListTimeout())
			if err != nil {
				reportAPIError(p, err)
				return probeFailed("list models", err)
			}

			if generateOnly {
				kept := models[:0]
				for _, m := range models {
					if m.SupportsGenerate() {
						kept = append(kept, m)
					}
				}
				models = kept
			}

			if asJSON {
				enc := json.NewEncoder(p.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(models)
			}

			p.Println()
			p.OK("HTTP Status: 200")
			p.Println()

			if len(models) == 0 {
				p.Println("No models found in response")
				return nil
			}

			p.Printf("Found %d available models:\n\n", len(models))
			for _, m := range models {
				p.Printf("📌 %s\n", m.ID)
				if m.DisplayName != "" {
					p.Printf("   Display: %s\n", m.DisplayName)
				}
				p.Printf("   Methods: %s\n", strings.Join(m.Methods, ", "))
				p.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the model list as JSON")
	cmd.Flags().BoolVar(&generateOnly, "generate-only", false, "Only list models that support generateContent")
	return cmd
}
