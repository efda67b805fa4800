package main

import (
	"errors"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/diagnose"
	"calmkit/internal/logging"

	"github.com/spf13/cobra"
)

func newDiagnoseCmd() *cobra.Command {
	var model, image string
	var raw bool

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the text probe, then the vision probe, and summarize",
		Long: `Runs the JSON-mode text probe. If it passes and the probe image exists,
runs the vision probe too. Finishes with a summary and what to check next.

Exits non-zero when the text probe fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			p := ui.NewPrinter(cmd.OutOrStdout())
			model = orDefault(model, cfg.Gemini.TextModel)
			image = orDefault(image, cfg.Probe.VisionImage)

			p.Println("\n🔍 Diagnostic Test for Gemini API")
			p.Println()
			p.Banner("Testing Google Gemini API", 60)
			printEndpoint(p, client.Endpoint(model))
			p.Println("\n🚀 Sending request...")

			sum := diagnose.Run(cmd.Context(), client, diagnose.Options{
				Model:         model,
				Temperature:   cfg.Gemini.Temperature,
				TextTimeout:   cfg.GetTextTimeout(),
				VisionTimeout: cfg.GetVisionTimeout(),
				ImagePath:     image,
			}, logs.Get(logging.CategoryDiagnose))

			printDiagnosis(p, sum, raw)

			if !sum.OK() {
				return errors.New("diagnosis failed: text API is not working")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to test (default from config: gemini.text_model)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "Image for the vision probe (default from config: probe.vision_image)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the vision reply without markdown rendering")
	return cmd
}

func printDiagnosis(p *ui.Printer, sum diagnose.Summary, raw bool) {
	switch {
	case sum.Text.Empty:
		reportEmptyReply(p, sum.Text.Result)
	case sum.Text.OK:
		p.Println()
		p.OK("HTTP Status: 200")
		p.OK("SUCCESS! API is working!")
		if sum.Text.Result != nil {
			p.Println("\n📦 Response:")
			p.Println(string(sum.Text.Result.Raw))
			p.Printf("\n💬 AI Response: %s\n", sum.Text.Result.Text)
		}
	default:
		reportAPIError(p, sum.Text.Err)
	}

	if sum.Text.OK {
		p.Println()
		p.Banner("Testing with Image", 60)
		switch {
		case sum.Vision.Skipped:
			p.Warn("Skipped: %s", sum.Vision.Reason)
		case sum.Vision.Empty:
			reportEmptyReply(p, sum.Vision.Result)
		case sum.Vision.OK:
			printVisionResult(p, sum.Vision.Result, raw)
		default:
			reportAPIError(p, sum.Vision.Err)
		}
	}

	p.Println()
	p.Banner("SUMMARY", 60)
	advice := sum.Advice()
	if sum.OK() {
		if sum.Text.Empty {
			p.Warn("Text API: WORKING (empty reply)")
		} else {
			p.OK("Text API: WORKING")
		}
		switch {
		case sum.Vision.Empty:
			p.Warn("Vision API: WORKING (empty reply)")
		case sum.Vision.OK:
			p.OK("Vision API: WORKING")
		case sum.Vision.Skipped:
			p.Warn("Vision API: SKIPPED (%s)", sum.Vision.Reason)
		default:
			p.Fail("Vision API: FAILED")
		}
		p.Printf("🎉 %s\n", advice[0])
		p.Printf("\n📱 %s\n", advice[1])
	} else {
		p.Fail("Text API: FAILED")
		p.Warn("Check:")
		for i, line := range advice {
			p.Printf("   %d. %s\n", i+1, line)
		}
	}
	p.Println()
}
