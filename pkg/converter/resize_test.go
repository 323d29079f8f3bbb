package converter

import (
	"fmt"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResizePreservesAspect(t *testing.T) {
	tests := []struct {
		src, target image.Point
	}{
		{image.Pt(1200, 1600), image.Pt(1236, 1648)},
		{image.Pt(2000, 1000), image.Pt(600, 800)},
		{image.Pt(100, 100), image.Pt(1000, 500)},
		{image.Pt(50, 300), image.Pt(600, 800)},
		{image.Pt(1072, 1448), image.Pt(1072, 1448)},
		{image.Pt(3000, 7), image.Pt(600, 800)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v->%v", tt.src, tt.target), func(t *testing.T) {
			got := Resize(newPage(tt.src.X, tt.src.Y), tt.target.X, tt.target.Y, nil)
			b := got.Bounds()

			assert.LessOrEqual(t, b.Dx(), tt.target.X)
			assert.LessOrEqual(t, b.Dy(), tt.target.Y)
			assert.GreaterOrEqual(t, b.Dx(), 1)
			assert.GreaterOrEqual(t, b.Dy(), 1)
			// One side fills the box, within truncation.
			assert.True(t, tt.target.X-b.Dx() <= 1 || tt.target.Y-b.Dy() <= 1)

			// Truncation moves each side by less than a pixel.
			ratio := float64(b.Dx()) / float64(tt.src.X)
			assert.Less(t, math.Abs(float64(tt.src.Y)*ratio-float64(b.Dy())), 1.0+ratio*float64(tt.src.Y)/float64(tt.src.X))
		})
	}
}

func TestResizeTruncates(t *testing.T) {
	// 2000x1000 into 600x800: ratio 0.3, height exactly 300.
	got := Resize(newPage(2000, 1000), 600, 800, nil)
	assert.Equal(t, image.Rect(0, 0, 600, 300), got.Bounds())

	// 7x9 scaled by 3/7: height 3.86 truncates to 3.
	got = Resize(newPage(7, 9), 3, 100, nil)
	assert.Equal(t, image.Rect(0, 0, 3, 3), got.Bounds())
}

func TestResizePadsWithMargin(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 400, 200)) // black
	white := uint8(255)

	got := Resize(src, 120, 160, &white)
	assert.Equal(t, image.Rect(0, 0, 120, 160), got.Bounds())

	// Scaled page is 120x60, centred with 50 rows above and below.
	assert.Equal(t, uint8(255), got.GrayAt(60, 10).Y)
	assert.Equal(t, uint8(255), got.GrayAt(60, 150).Y)
	assert.Equal(t, uint8(0), got.GrayAt(60, 80).Y)
	assert.Equal(t, uint8(0), got.GrayAt(60, 50).Y)
	assert.Equal(t, uint8(255), got.GrayAt(60, 49).Y)
}

func TestResizeExactFitIsACopy(t *testing.T) {
	src := newPage(100, 200)
	fill(src, image.Rect(10, 10, 20, 20), 0)

	got := Resize(src, 100, 200, nil)
	assert.Equal(t, src.Pix, got.Pix)
	assert.NotSame(t, &src.Pix[0], &got.Pix[0])
}

func TestResizeSubImage(t *testing.T) {
	full := newPage(200, 100)
	fill(full, image.Rect(100, 0, 200, 100), 0)
	right := full.SubImage(image.Rect(100, 0, 200, 100)).(*image.Gray)

	got := Resize(right, 50, 50, nil)
	assert.Equal(t, image.Rect(0, 0, 50, 50), got.Bounds())
	assert.Equal(t, uint8(0), got.GrayAt(25, 25).Y)
}
