package converter

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Resize fits img into a targetW x targetH box without distorting it.
// Downscaling uses Lanczos to keep line art crisp; upscaling uses Catmull-Rom
// to avoid ringing. When the fitted page does not fill the box and margin is
// non-nil, the page is centred on a canvas of that gray level; otherwise the
// fitted page is returned at its own size.
func Resize(img *image.Gray, targetW, targetH int, margin *uint8) *image.Gray {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	ratio := min(float64(targetW)/float64(width), float64(targetH)/float64(height))

	// Truncated, never zero.
	newW := max(int(float64(width)*ratio), 1)
	newH := max(int(float64(height)*ratio), 1)

	filter := imaging.CatmullRom
	if ratio < 1.0 {
		filter = imaging.Lanczos
	}

	var resized *image.Gray
	if newW == width && newH == height {
		resized = cloneGray(img)
	} else {
		resized = grayFromNRGBA(imaging.Resize(img, newW, newH, filter))
	}

	if newW == targetW && newH == targetH {
		return resized
	}
	if margin == nil {
		return resized
	}

	canvas := image.NewGray(image.Rect(0, 0, targetW, targetH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Gray{Y: *margin}), image.Point{}, draw.Src)
	offset := image.Pt((targetW-newW)/2, (targetH-newH)/2)
	draw.Draw(canvas, resized.Bounds().Add(offset), resized, image.Point{}, draw.Src)
	return canvas
}

// grayFromNRGBA keeps the red channel of an image produced by resampling a
// grayscale source, where all three channels are equal.
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[di+x] = src.Pix[si+x*4]
		}
	}
	return dst
}

// cloneGray copies img into a fresh zero-origin buffer.
func cloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[dst.PixOffset(0, y):dst.PixOffset(b.Dx(), y)], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):img.PixOffset(b.Max.X, b.Min.Y+y)])
	}
	return dst
}
