package converter

import (
	"bytes"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	// Registers the WebP decoder with image.Decode; imaging covers the rest.
	_ "golang.org/x/image/webp"
)

// Decode turns the raw bytes of one archive entry into an 8-bit grayscale
// page. Buffers that are not a raster image, or are truncated, fail with a
// decode-category error.
func Decode(entry string, data []byte) (*image.Gray, error) {
	if len(data) == 0 {
		return nil, DecodeError(entry, ErrEmptyInput)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, DecodeError(entry, errors.Wrapf(ErrUnsupportedFormat, "detected %s", mt.String()))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, DecodeError(entry, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, DecodeError(entry, ErrInvalidDimensions)
	}

	return toGray(img), nil
}

type opaquer interface {
	Opaque() bool
}

// toGray reduces any decoded image to a zero-origin grayscale buffer.
// Transparent regions are flattened onto white, the colour of a blank page.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if o, ok := img.(opaquer); ok && o.Opaque() {
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		return gray
	}

	draw.Draw(gray, gray.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Over)
	return gray
}
