// Package diagnose runs the end-to-end API check: a JSON-mode text request,
// then, only if that passed, a vision request with a local image.
package diagnose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"calmkit/internal/gemini"
	"calmkit/internal/imaging"

	"go.uber.org/zap"
)

// ErrImageNotFound marks a missing vision probe image.
var ErrImageNotFound = errors.New("image not found")

// Prober is the subset of gemini.Client the diagnosis needs.
type Prober interface {
	ProbeText(ctx context.Context, model string, temperature float32, timeout time.Duration) (*gemini.Result, error)
	ProbeVision(ctx context.Context, model string, image []byte, mime string, temperature float32, timeout time.Duration) (*gemini.Result, error)
}

// Options parametrize a run.
type Options struct {
	Model         string
	Temperature   float32
	TextTimeout   time.Duration
	VisionTimeout time.Duration
	ImagePath     string
}

// Step is the outcome of one probe.
type Step struct {
	Name    string
	OK      bool
	Skipped bool
	Reason  string // why the step was skipped
	// Empty marks a 200 reply without candidate text. The step still counts as OK.
	Empty  bool
	Result *gemini.Result
	Err    error
}

// Summary is the outcome of a run.
type Summary struct {
	Text   Step
	Vision Step
}

// OK reports whether the key and endpoint work, which the text step decides.
func (s Summary) OK() bool {
	return s.Text.OK
}

// Advice returns the closing lines for the summary.
func (s Summary) Advice() []string {
	if s.OK() && s.Text.Empty {
		reason := "no block reason given"
		if s.Text.Result != nil && s.Text.Result.BlockReason != "" {
			reason = "block reason: " + s.Text.Result.BlockReason
		}
		return []string{
			"Your API key is valid and the endpoint is correct, but the model returned no candidates (" + reason + ").",
			"Check promptFeedback in the response above before changing the app code.",
		}
	}
	if s.OK() {
		return []string{
			"Your API key is valid and the endpoint is correct!",
			"If the Android app still fails, the issue is in the app code.",
		}
	}
	return []string{
		"API key is correct (no spaces/typos)",
		"Internet connection is working",
		"Gemini API is accessible in your region",
	}
}

// Run executes the diagnosis. It never returns an error; failures are
// recorded on the steps.
func Run(ctx context.Context, p Prober, opts Options, logger *zap.Logger) Summary {
	if logger == nil {
		logger = zap.NewNop()
	}

	sum := Summary{
		Text:   Step{Name: "text"},
		Vision: Step{Name: "vision"},
	}

	res, err := p.ProbeText(ctx, opts.Model, opts.Temperature, opts.TextTimeout)
	sum.Text.record(res, err)
	logger.Info("Text probe finished",
		zap.Bool("ok", sum.Text.OK),
		zap.Bool("empty", sum.Text.Empty),
		zap.Error(err))

	if !sum.Text.OK {
		sum.Vision.Skipped = true
		sum.Vision.Reason = "text probe failed"
		return sum
	}

	data, mime, err := ReadImage(opts.ImagePath)
	if err != nil {
		sum.Vision.Skipped = true
		sum.Vision.Reason = err.Error()
		logger.Warn("Vision probe skipped", zap.String("image", opts.ImagePath), zap.Error(err))
		return sum
	}

	res, err = p.ProbeVision(ctx, opts.Model, data, mime, opts.Temperature, opts.VisionTimeout)
	sum.Vision.record(res, err)
	logger.Info("Vision probe finished",
		zap.Bool("ok", sum.Vision.OK),
		zap.Bool("empty", sum.Vision.Empty),
		zap.Error(err))

	return sum
}

// record stores a probe outcome. An HTTP 200 without text is OK but Empty.
func (s *Step) record(res *gemini.Result, err error) {
	s.Result = res
	s.Err = err
	s.Empty = errors.Is(err, gemini.ErrEmptyResponse)
	s.OK = err == nil || s.Empty
}

// ReadImage loads a probe image and detects its MIME type.
func ReadImage(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("%w: no path configured", ErrImageNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, "", err
	}
	mime, err := imaging.SniffMIME(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return data, mime, nil
}
