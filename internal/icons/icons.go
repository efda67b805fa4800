// Package icons generates Android launcher icons at every density from one source image.
package icons

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"calmkit/internal/config"
	"calmkit/internal/imaging"

	"go.uber.org/zap"
)

// ErrSourceNotFound is returned when the source image does not exist.
var ErrSourceNotFound = errors.New("source image not found")

// Options selects the source image and output layout.
type Options struct {
	Source    string
	ResDir    string
	FileName  string
	Densities []config.Density
}

// OptionsFromConfig builds Options from the icons config section.
func OptionsFromConfig(c config.IconsConfig) Options {
	return Options{
		Source:    c.Source,
		ResDir:    c.ResDir,
		FileName:  c.FileName,
		Densities: c.Densities,
	}
}

// Result is one written icon.
type Result struct {
	Density config.Density
	Path    string
	Bytes   int64
}

// Report describes a generation run.
type Report struct {
	Source  string
	Info    imaging.Info
	Results []Result
}

// Generate writes one square PNG per density under ResDir/<folder>/<FileName>.
// Densities are processed in order. On failure the report holds the icons
// written so far.
func Generate(ctx context.Context, opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Densities) == 0 {
		return nil, fmt.Errorf("no densities configured")
	}
	if opts.FileName == "" {
		opts.FileName = "ic_launcher.png"
	}

	if _, err := os.Stat(opts.Source); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, opts.Source)
		}
		return nil, fmt.Errorf("stat source: %w", err)
	}

	src, info, err := imaging.Load(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("open source image: %w", err)
	}
	logger.Debug("Source decoded",
		zap.String("path", opts.Source),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.String("format", info.Format))

	report := &Report{Source: opts.Source, Info: info}

	for _, d := range opts.Densities {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := writeIcon(src, d, opts.ResDir, opts.FileName)
		if err != nil {
			return report, fmt.Errorf("%s: %w", d.Folder, err)
		}
		logger.Info("Icon written",
			zap.String("folder", d.Folder),
			zap.Int("size", d.Size),
			zap.Int64("bytes", res.Bytes))
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func writeIcon(src image.Image, d config.Density, resDir, fileName string) (Result, error) {
	dir := filepath.Join(resDir, d.Folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("create folder: %w", err)
	}

	out := filepath.Join(dir, fileName)
	f, err := os.Create(out)
	if err != nil {
		return Result{}, fmt.Errorf("create icon: %w", err)
	}

	if err := imaging.EncodePNG(f, imaging.Square(src, d.Size)); err != nil {
		f.Close()
		return Result{}, fmt.Errorf("encode icon: %w", err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("close icon: %w", err)
	}

	st, err := os.Stat(out)
	if err != nil {
		return Result{}, err
	}

	return Result{Density: d, Path: out, Bytes: st.Size()}, nil
}
