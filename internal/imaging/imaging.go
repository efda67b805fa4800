// Package imaging loads, resamples and encodes raster images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	// Decoders for Load.
	_ "image/gif"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for image formats the API cannot accept inline.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Info describes a decoded source image.
type Info struct {
	Width  int
	Height int
	Format string // as reported by image.Decode: "png", "jpeg", "gif"
}

// Load decodes the image at path.
func Load(path string) (image.Image, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, Info{}, fmt.Errorf("decode %s: %w", path, err)
	}

	b := img.Bounds()
	return img, Info{Width: b.Dx(), Height: b.Dy(), Format: format}, nil
}

// Square resamples src to exactly size x size. Aspect ratio is not kept.
func Square(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// Fit downscales src so neither side exceeds maxDim, keeping the aspect ratio.
// Images already within bounds are returned as is.
func Fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}

	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG with default compression.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeJPEG writes img as JPEG. quality is clamped to 1..100.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	quality = min(max(quality, 1), 100)
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// MIMEType maps a decoder format name to its inline-data MIME type.
func MIMEType(format string) (string, error) {
	switch format {
	case "png":
		return "image/png", nil
	case "jpeg", "jpg":
		return "image/jpeg", nil
	case "gif":
		return "image/gif", nil
	case "webp":
		return "image/webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// SniffMIME decodes just the header of data and returns its MIME type.
func SniffMIME(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return MIMEType(format)
}
