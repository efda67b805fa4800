package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/gemini"
	"calmkit/internal/imaging"
	"calmkit/internal/logging"
	"calmkit/internal/nutrition"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd() *cobra.Command {
	var userContext, model string

	cmd := &cobra.Command{
		Use:   "analyze <photo>",
		Short: "Estimate the foods and macros in a meal photo",
		Long: `Runs the same analysis as the app's scan screen: the photo is downscaled,
sent to Gemini with the nutritionist prompt, and the detected foods are
listed with their portion-scaled calories, protein, carbs and fat.

Example:
  calmkit analyze lunch.jpg --context "two slices, whole wheat bread"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, client, args[0], orDefault(model, cfg.Gemini.DefaultModel), userContext)
		},
	}

	cmd.Flags().StringVar(&userContext, "context", "", "Extra details about the meal")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (default from config: gemini.default_model)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, client *gemini.Client, photo, model, userContext string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	log := logs.Get(logging.CategoryAnalyze)

	img, info, err := imaging.Load(photo)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}
	scaled := imaging.Fit(img, cfg.Analyze.MaxDimension)

	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, scaled, cfg.Analyze.JPEGQuality); err != nil {
		return fmt.Errorf("encode photo: %w", err)
	}
	log.Debug("Photo prepared",
		zap.String("path", photo),
		zap.Int("orig_width", info.Width),
		zap.Int("orig_height", info.Height),
		zap.Int("jpeg_bytes", buf.Len()))

	p.Printf("📸 Analyzing %s with %s...\n", photo, model)

	res, err := client.Generate(cmd.Context(), gemini.Request{
		Model:        model,
		Prompt:       nutrition.Prompt(userContext),
		Temperature:  cfg.Gemini.Temperature,
		JSONResponse: true,
		Image:        buf.Bytes(),
		ImageMIME:    "image/jpeg",
		Timeout:      cfg.GetVisionTimeout(),
	})
	if errors.Is(err, gemini.ErrEmptyResponse) {
		reportEmptyReply(p, res)
		p.Warn("No food items detected. Try a clearer photo.")
		return nil
	}
	if err != nil {
		reportAPIError(p, err)
		return probeFailed("analysis", err)
	}
	p.Muted("%s answered in %s (%d tokens)", res.Model, res.Latency.Round(time.Millisecond), res.Usage.TotalTokens)

	foods, err := nutrition.ParseFoods(res.Text)
	if err != nil {
		log.Warn("Unparseable analysis reply", zap.String("text", res.Text))
		return fmt.Errorf("AI reply was not valid food JSON: %w", err)
	}

	p.Println()
	if len(foods) == 0 {
		p.Warn("No food items detected. Try a clearer photo.")
		return nil
	}

	p.Println(foodTable(foods))
	t := nutrition.Sum(foods)
	p.Println()
	p.Printf("Total: %.0f kcal | protein %.1f g | carbs %.1f g | fat %.1f g\n",
		t.Calories, t.Protein, t.Carbs, t.Fat)
	return nil
}

func foodTable(foods []nutrition.FoodItem) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Food", "Portion", "kcal", "Protein", "Carbs", "Fat", "Confidence")
	for _, f := range foods {
		tbl.Row(
			f.Name,
			fmt.Sprintf("%.0f g", f.Grams),
			fmt.Sprintf("%.0f", f.Calories()),
			fmt.Sprintf("%.1f g", f.Protein()),
			fmt.Sprintf("%.1f g", f.Carbs()),
			fmt.Sprintf("%.1f g", f.Fat()),
			fmt.Sprintf("%.0f%%", f.Confidence*100),
		)
	}
	return strings.TrimRight(tbl.String(), "\n")
}
