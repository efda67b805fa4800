package main

import (
	"encoding/base64"
	"errors"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/diagnose"
	"calmkit/internal/gemini"

	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Smoke-test the Gemini generateContent endpoint",
		Long: `Sends one request and prints the outcome. Use these to tell apart a bad
key, a wrong model name and a problem in the app itself.

  probe text          JSON-mode text request
  probe vision        text + inline image request
  probe model [name]  plain one-sentence request against a specific model`,
	}

	probeCmd.AddCommand(newProbeTextCmd(), newProbeVisionCmd(), newProbeModelCmd())
	return probeCmd
}

func newProbeTextCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Send a JSON-mode text request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Banner("Testing Google Gemini API", 60)

			_, err = runTextProbe(cmd, p, client, orDefault(model, cfg.Gemini.TextModel))
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to test (default from config: gemini.text_model)")
	return cmd
}

// runTextProbe prints the text probe and reports whether it passed.
func runTextProbe(cmd *cobra.Command, p *ui.Printer, client *gemini.Client, model string) (*gemini.Result, error) {
	printEndpoint(p, client.Endpoint(model))
	p.Println("\n🚀 Sending request...")

	res, err := client.ProbeText(cmd.Context(), model, cfg.Gemini.Temperature, cfg.GetTextTimeout())
	if errors.Is(err, gemini.ErrEmptyResponse) {
		reportEmptyReply(p, res)
		return res, nil
	}
	if err != nil {
		reportAPIError(p, err)
		return res, probeFailed("text probe", err)
	}

	p.Println()
	p.OK("HTTP Status: 200")
	p.OK("SUCCESS! API is working!")
	p.Println("\n📦 Response:")
	p.Println(string(res.Raw))
	p.Printf("\n💬 AI Response: %s\n", res.Text)
	return res, nil
}

func newProbeVisionCmd() *cobra.Command {
	var model, image string
	var raw bool

	cmd := &cobra.Command{
		Use:   "vision",
		Short: "Send a request with an inline image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Banner("Testing with Image", 60)

			path := orDefault(image, cfg.Probe.VisionImage)
			data, mime, err := diagnose.ReadImage(path)
			if err != nil {
				if errors.Is(err, diagnose.ErrImageNotFound) {
					p.Warn("Image not found: %s", path)
				} else {
					p.Fail("ERROR: %v", err)
				}
				return err
			}
			_, err = runVisionProbe(cmd, p, client, orDefault(model, cfg.Gemini.TextModel), path, data, mime, raw)
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to test (default from config: gemini.text_model)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "Image to send (default from config: probe.vision_image)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	return cmd
}

func runVisionProbe(cmd *cobra.Command, p *ui.Printer, client *gemini.Client, model, path string, data []byte, mime string, raw bool) (*gemini.Result, error) {
	p.Printf("\n📸 Encoding image: %s\n", path)
	p.OK("Image encoded (%d chars)", base64.StdEncoding.EncodedLen(len(data)))
	p.Println("\n🚀 Sending vision request...")

	res, err := client.ProbeVision(cmd.Context(), model, data, mime, cfg.Gemini.Temperature, cfg.GetVisionTimeout())
	if errors.Is(err, gemini.ErrEmptyResponse) {
		reportEmptyReply(p, res)
		return res, nil
	}
	if err != nil {
		reportAPIError(p, err)
		return res, probeFailed("vision probe", err)
	}

	printVisionResult(p, res, raw)
	return res, nil
}

func printVisionResult(p *ui.Printer, res *gemini.Result, raw bool) {
	p.Println()
	p.OK("HTTP Status: 200")
	p.OK("Vision API is working!")
	p.Println("\n💬 AI Response:")
	p.Markdown(res.Text, raw)
}

func newProbeModelCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "model [name]",
		Short: "Check that a specific model answers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			p := ui.NewPrinter(cmd.OutOrStdout())

			model := cfg.Gemini.DefaultModel
			if len(args) == 1 {
				model = args[0]
			}
			p.Printf("Testing %s model...\n\n", model)

			res, err := client.ProbeModel(cmd.Context(), model, cfg.Gemini.Temperature, cfg.GetTextTimeout())
			if errors.Is(err, gemini.ErrEmptyResponse) {
				reportEmptyReply(p, res)
				return nil
			}
			if err != nil {
				reportAPIError(p, err)
				return probeFailed("model probe", err)
			}

			p.OK("SUCCESS! %s is working!", model)
			p.Println("\n💬 Response:")
			p.Markdown(res.Text, raw)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	return cmd
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
