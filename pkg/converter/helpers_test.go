package converter

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// newPage returns a white w x h page.
func newPage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// fill paints r on img with the gray level v.
func fill(img *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

// pageWithMargins returns a white page with a black block leaving the given
// margins on each side.
func pageWithMargins(w, h, left, right, top, bottom int) *image.Gray {
	img := newPage(w, h)
	fill(img, image.Rect(left, top, w-right, h-bottom), 0)
	return img
}

func encodeTestImage(t *testing.T, img image.Image, format imaging.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func pngEntry(t *testing.T, path string, img image.Image) ArchiveEntry {
	t.Helper()
	return ArchiveEntry{Path: path, Data: encodeTestImage(t, img, imaging.PNG)}
}
