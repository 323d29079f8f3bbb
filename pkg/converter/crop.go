package converter

import "image"

const (
	// Pixels brighter than this are blank paper.
	whiteThreshold = 230
	// An edge is only cropped when its margin is at least this wide.
	minMarginWidth = 10
	// Kept around detected content so strokes are never shaved.
	safetyMargin = 2

	noiseDistance      = 4
	noiseDarkNeighbors = 3
)

// AutoCrop finds the content rectangle of img, ignoring specks of noise in the
// margins. It reports false when there is no margin worth removing or no
// content was found. The returned rectangle is in img's coordinate space.
func AutoCrop(img *image.Gray) (image.Rectangle, bool) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return image.Rectangle{}, false
	}

	isContent := func(x, y int) bool {
		return img.GrayAt(b.Min.X+x, b.Min.Y+y).Y < whiteThreshold && isNotNoise(img, x, y)
	}

	left := 0
scanLeft:
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if isContent(x, y) {
				left = x
				break scanLeft
			}
		}
	}

	right := width - 1
scanRight:
	for x := width - 1; x >= 0; x-- {
		for y := 0; y < height; y++ {
			if isContent(x, y) {
				right = x
				break scanRight
			}
		}
	}

	top := 0
scanTop:
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if isContent(x, y) {
				top = y
				break scanTop
			}
		}
	}

	bottom := height - 1
scanBottom:
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			if isContent(x, y) {
				bottom = y
				break scanBottom
			}
		}
	}

	if left >= right || top >= bottom {
		return image.Rectangle{}, false
	}

	left = max(left-safetyMargin, 0)
	right = min(right+safetyMargin, width-1)
	top = max(top-safetyMargin, 0)
	bottom = min(bottom+safetyMargin, height-1)

	cropWidth := right - left + 1
	cropHeight := bottom - top + 1

	leftSize, rightSize := left, width-right-1
	topSize, bottomSize := top, height-bottom-1

	cropH := (leftSize >= minMarginWidth || rightSize >= minMarginWidth) && cropWidth > 0 && cropWidth < width
	cropV := (topSize >= minMarginWidth || bottomSize >= minMarginWidth) && cropHeight > 0 && cropHeight < height
	if !cropH && !cropV {
		return image.Rectangle{}, false
	}

	r := image.Rect(0, 0, width, height)
	if cropH {
		r.Min.X, r.Max.X = left, right+1
	}
	if cropV {
		r.Min.Y, r.Max.Y = top, bottom+1
	}
	return r.Add(b.Min), true
}

// Crop returns a view of img limited to the auto-detected content, or img
// itself when nothing should be cropped. The view shares img's pixels.
func Crop(img *image.Gray) *image.Gray {
	r, ok := AutoCrop(img)
	if !ok {
		return img
	}
	return img.SubImage(r).(*image.Gray)
}

// isNotNoise reports whether at least noiseDarkNeighbors other dark pixels
// sit within a Chebyshev distance of noiseDistance of (x, y). Coordinates are
// relative to img's bounds.
func isNotNoise(img *image.Gray, x, y int) bool {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	dark := 0
	for dy := -noiseDistance; dy <= noiseDistance; dy++ {
		ny := y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for dx := -noiseDistance; dx <= noiseDistance; dx++ {
			nx := x + dx
			if (dx == 0 && dy == 0) || nx < 0 || nx >= width {
				continue
			}
			if img.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y < whiteThreshold {
				dark++
				if dark >= noiseDarkNeighbors {
					return true
				}
			}
		}
	}
	return false
}
