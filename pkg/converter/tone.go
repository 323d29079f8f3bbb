package converter

import (
	"image"
	"math"
	"sync"
)

// gammaTable is computed once per distinct gamma and never written again.
type gammaTable struct {
	once sync.Once
	lut  [256]uint8
}

// gammaTables maps a gamma rounded to 3 decimals to its *gammaTable.
var gammaTables sync.Map

func gammaKey(gamma float64) int {
	return int(math.Round(gamma * 1000))
}

// gammaLUT returns the shared lookup table for gamma. Concurrent callers
// asking for the same gamma block on the same sync.Once.
func gammaLUT(gamma float64) *[256]uint8 {
	key := gammaKey(gamma)
	v, _ := gammaTables.LoadOrStore(key, &gammaTable{})
	t := v.(*gammaTable)
	t.once.Do(func() {
		g := float64(key) / 1000
		for i := range t.lut {
			corrected := math.Pow(float64(i)/255, g)
			t.lut[i] = uint8(math.Round(math.Max(0, math.Min(1, corrected)) * 255))
		}
	})
	return &t.lut
}

// Transform applies gamma, then autocontrast, then brightness to img in
// place and returns it. Stretching must see the gamma-corrected histogram and
// the manual brightness offset is the last word.
func Transform(img *image.Gray, brightness int, gamma float64) *image.Gray {
	gamma = clampGamma(gamma)
	if math.Abs(gamma-1.0) > 0.01 {
		applyLUT(img, gammaLUT(gamma))
	}
	Autocontrast(img)
	if brightness != 0 {
		Brighten(img, brightness)
	}
	return img
}

// Histogram counts pixel intensities of img.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, p := range row {
			hist[p]++
		}
	}
	return hist
}

// Autocontrast linearly stretches the occupied intensity range of img to
// [0, 255]. Images with a single intensity are left alone.
func Autocontrast(img *image.Gray) {
	hist := Histogram(img)

	lo, hi := 0, 255
	for lo < 256 && hist[lo] == 0 {
		lo++
	}
	for hi >= 0 && hist[hi] == 0 {
		hi--
	}
	if lo >= 256 || hi <= lo {
		return
	}
	if lo == 0 && hi == 255 {
		return
	}

	var lut [256]uint8
	span := hi - lo
	for i := range lut {
		switch {
		case i <= lo:
			lut[i] = 0
		case i >= hi:
			lut[i] = 255
		default:
			lut[i] = uint8((i - lo) * 255 / span)
		}
	}
	applyLUT(img, &lut)
}

// Brighten adds offset to every pixel, saturating at 0 and 255.
func Brighten(img *image.Gray, offset int) {
	offset = clampInt(offset, -255, 255)
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(clampInt(i+offset, 0, 255))
	}
	applyLUT(img, &lut)
}

func applyLUT(img *image.Gray, lut *[256]uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i, p := range row {
			row[i] = lut[p]
		}
	}
}
