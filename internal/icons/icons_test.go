package icons

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"calmkit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	path := filepath.Join(dir, "CAPY.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestGenerate_AllDensities(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Source:    writeSource(t, dir, 256, 256),
		ResDir:    filepath.Join(dir, "res"),
		FileName:  "ic_launcher.png",
		Densities: config.DefaultDensities(),
	}

	report, err := Generate(context.Background(), opts, nil)
	require.NoError(t, err)
	require.Len(t, report.Results, 5)
	assert.Equal(t, "png", report.Info.Format)
	assert.Equal(t, 256, report.Info.Width)

	for i, d := range config.DefaultDensities() {
		res := report.Results[i]
		assert.Equal(t, d, res.Density)
		assert.Equal(t, filepath.Join(opts.ResDir, d.Folder, "ic_launcher.png"), res.Path)
		assert.Positive(t, res.Bytes)

		w, h := decodeSize(t, res.Path)
		assert.Equal(t, d.Size, w, d.Folder)
		assert.Equal(t, d.Size, h, d.Folder)
	}
}

func TestGenerate_NonSquareSourceIsStretched(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Source:    writeSource(t, dir, 200, 50),
		ResDir:    dir,
		Densities: []config.Density{{Folder: "mipmap-hdpi", Size: 72}},
	}

	report, err := Generate(context.Background(), opts, nil)
	require.NoError(t, err)

	w, h := decodeSize(t, report.Results[0].Path)
	assert.Equal(t, 72, w)
	assert.Equal(t, 72, h)
	assert.Equal(t, "ic_launcher.png", filepath.Base(report.Results[0].Path))
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "mipmap-mdpi", "ic_launcher.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	_, err := Generate(context.Background(), Options{
		Source:    writeSource(t, dir, 64, 64),
		ResDir:    dir,
		Densities: []config.Density{{Folder: "mipmap-mdpi", Size: 48}},
	}, nil)
	require.NoError(t, err)

	w, _ := decodeSize(t, stale)
	assert.Equal(t, 48, w)
}

func TestGenerate_MissingSource(t *testing.T) {
	dir := t.TempDir()
	res := filepath.Join(dir, "res")

	_, err := Generate(context.Background(), Options{
		Source:    filepath.Join(dir, "missing.png"),
		ResDir:    res,
		Densities: config.DefaultDensities(),
	}, nil)
	require.ErrorIs(t, err, ErrSourceNotFound)

	_, statErr := os.Stat(res)
	assert.True(t, os.IsNotExist(statErr), "nothing may be written when the source is missing")
}

func TestGenerate_UndecodableSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "CAPY.png")
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0644))

	_, err := Generate(context.Background(), Options{
		Source:    src,
		ResDir:    dir,
		Densities: config.DefaultDensities(),
	}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
}

func TestGenerate_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Generate(ctx, Options{
		Source:    writeSource(t, dir, 64, 64),
		ResDir:    dir,
		Densities: config.DefaultDensities(),
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Results)
}

func TestGenerate_NoDensities(t *testing.T) {
	_, err := Generate(context.Background(), Options{Source: "x"}, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Icons
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, cfg.Source, opts.Source)
	assert.Equal(t, cfg.ResDir, opts.ResDir)
	assert.Equal(t, cfg.Densities, opts.Densities)
}
