package converter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FormatKind selects the output encoder.
type FormatKind string

const (
	FormatJPEG FormatKind = "jpeg"
	FormatPNG  FormatKind = "png"
	FormatWebP FormatKind = "webp"
)

// PNGCompression is the compression effort tier for PNG output.
type PNGCompression string

const (
	PNGFast    PNGCompression = "fast"
	PNGDefault PNGCompression = "default"
	PNGBest    PNGCompression = "best"
)

// ImageFormat is the target encoding of every produced page. Quality applies
// to JPEG and WebP, Compression to PNG.
type ImageFormat struct {
	Kind        FormatKind
	Quality     int
	Compression PNGCompression
}

// JPEG returns a JPEG format at the given quality (0-100).
func JPEG(quality int) ImageFormat {
	return ImageFormat{Kind: FormatJPEG, Quality: clampInt(quality, 0, 100)}
}

// PNG returns a lossless PNG format at the given compression tier.
func PNG(compression PNGCompression) ImageFormat {
	return ImageFormat{Kind: FormatPNG, Compression: compression}
}

// WebP returns a lossy WebP format at the given quality (0-100).
func WebP(quality int) ImageFormat {
	return ImageFormat{Kind: FormatWebP, Quality: clampInt(quality, 0, 100)}
}

// Extension returns the file extension used for pages in this format.
func (f ImageFormat) Extension() string {
	switch f.Kind {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "jpg"
	}
}

// MediaType returns the MIME type of pages in this format.
func (f ImageFormat) MediaType() string {
	switch f.Kind {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (f ImageFormat) String() string {
	if f.Kind == FormatPNG {
		return fmt.Sprintf("png (%s compression)", f.Compression)
	}
	return fmt.Sprintf("%s (quality %d)", f.Kind, f.Quality)
}

// ParseImageFormat builds an ImageFormat from its textual kind.
func ParseImageFormat(kind string, quality int, compression string) (ImageFormat, error) {
	switch FormatKind(strings.ToLower(strings.TrimSpace(kind))) {
	case FormatJPEG, "jpg":
		return JPEG(quality), nil
	case FormatWebP:
		return WebP(quality), nil
	case FormatPNG:
		c, err := ParsePNGCompression(compression)
		if err != nil {
			return ImageFormat{}, err
		}
		return PNG(c), nil
	default:
		return ImageFormat{}, errors.Wrapf(ErrUnsupportedFormat, "image format %q", kind)
	}
}

// ParsePNGCompression accepts fast, default or best. An empty string means default.
func ParsePNGCompression(s string) (PNGCompression, error) {
	switch c := PNGCompression(strings.ToLower(strings.TrimSpace(s))); c {
	case PNGFast, PNGDefault, PNGBest:
		return c, nil
	case "":
		return PNGDefault, nil
	default:
		return "", errors.Errorf("unknown png compression %q (fast, default, best)", s)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
