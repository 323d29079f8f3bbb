package converter

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// IsSpread reports whether img is a double-page spread, i.e. wider than tall.
func IsSpread(img *image.Gray) bool {
	b := img.Bounds()
	return b.Dx() > b.Dy()
}

// ProcessImageView splits or rotates img according to cfg.Split and resizes
// every resulting variant to the device canvas. The returned pages are in
// reading order; for rotate-split the rotated full page comes first.
func ProcessImageView(img *image.Gray, cfg Config) Split[*image.Gray] {
	tw, th := cfg.Dimensions()
	var margin *uint8
	if v, ok := cfg.MarginColor.Value(); ok {
		margin = &v
	}
	fit := func(g *image.Gray) *image.Gray { return Resize(g, tw, th, margin) }

	if !IsSpread(img) || cfg.Split == SplitNone || cfg.Split == "" {
		return One(fit(img))
	}

	switch cfg.Split {
	case SplitPages:
		first, second := splitDoublePage(img, cfg.RightToLeft)
		out := forkJoin(
			func() *image.Gray { return fit(first) },
			func() *image.Gray { return fit(second) },
		)
		return Two(out[0], out[1])

	case SplitRotate:
		return One(fit(Rotate90(img, cfg.RightToLeft)))

	case SplitRotateAndSplit:
		first, second := splitDoublePage(img, cfg.RightToLeft)
		out := forkJoin(
			func() *image.Gray { return fit(Rotate90(img, cfg.RightToLeft)) },
			func() *image.Gray { return fit(first) },
			func() *image.Gray { return fit(second) },
		)
		return Three(out[0], out[1], out[2])
	}

	return One(fit(img))
}

// splitDoublePage cuts img at its vertical midline and returns the halves in
// reading order. Both halves are views sharing img's pixels.
func splitDoublePage(img *image.Gray, rightToLeft bool) (*image.Gray, *image.Gray) {
	b := img.Bounds()
	half := b.Dx() / 2
	left := img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+half, b.Max.Y)).(*image.Gray)
	right := img.SubImage(image.Rect(b.Min.X+half, b.Min.Y, b.Min.X+2*half, b.Max.Y)).(*image.Gray)
	if rightToLeft {
		return right, left
	}
	return left, right
}

// Rotate90 returns img turned a quarter turn into a freshly allocated
// height x width buffer. Right-to-left books rotate clockwise.
func Rotate90(img *image.Gray, clockwise bool) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):img.PixOffset(b.Max.X, b.Min.Y+y)]
		for x, p := range row {
			if clockwise {
				dst.Pix[dst.PixOffset(h-1-y, x)] = p
			} else {
				dst.Pix[dst.PixOffset(y, w-1-x)] = p
			}
		}
	}
	return dst
}

// forkJoin runs the independent variant builders and waits for all of them.
// On a single CPU they run inline, in order.
func forkJoin(fns ...func() *image.Gray) []*image.Gray {
	out := make([]*image.Gray, len(fns))
	if runtime.GOMAXPROCS(0) < 2 {
		for i, fn := range fns {
			out[i] = fn()
		}
		return out
	}

	// A panic in a branch is carried back so the caller's entry boundary sees it.
	panics := make([]any, len(fns))
	var g errgroup.Group
	for i, fn := range fns {
		g.Go(func() error {
			defer func() { panics[i] = recover() }()
			out[i] = fn()
			return nil
		})
	}
	_ = g.Wait()
	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
	return out
}
