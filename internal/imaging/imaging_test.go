package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoad(t *testing.T) {
	path := writePNG(t, solid(64, 32, color.White))

	img, info, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Info{Width: 64, Height: 32, Format: "png"}, info)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestLoad_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestSquare_StretchesToExactSize(t *testing.T) {
	src := solid(300, 100, color.RGBA{200, 10, 10, 255})

	dst := Square(src, 48)
	assert.Equal(t, image.Rect(0, 0, 48, 48), dst.Bounds())

	r, g, b, a := dst.At(24, 24).RGBA()
	assert.InDelta(t, 200, r>>8, 2)
	assert.InDelta(t, 10, g>>8, 2)
	assert.InDelta(t, 10, b>>8, 2)
	assert.EqualValues(t, 255, a>>8)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 4000, 3000, 1024, 1024, 768},
		{"portrait", 1000, 2000, 500, 250, 500},
		{"already small", 200, 100, 1024, 200, 100},
		{"no limit", 5000, 5000, 0, 5000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.max)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := solid(10, 10, color.Black)

	var pngBuf, jpgBuf bytes.Buffer
	require.NoError(t, EncodePNG(&pngBuf, src))
	require.NoError(t, EncodeJPEG(&jpgBuf, src, 500))

	_, format, err := image.Decode(&pngBuf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, format, err = image.Decode(&jpgBuf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestMIMEType(t *testing.T) {
	m, err := MIMEType("jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", m)

	_, err = MIMEType("bmp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSniffMIME(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, solid(4, 4, color.White)))

	m, err := SniffMIME(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", m)

	_, err = SniffMIME([]byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
