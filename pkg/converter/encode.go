package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Encode compresses a grayscale page into format.
func Encode(img *image.Gray, format ImageFormat) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, EncodeError(format.Extension(), ErrInvalidDimensions)
	}

	buf := bytes.NewBuffer(make([]byte, 0, b.Dx()*b.Dy()/4))

	switch format.Kind {
	case FormatPNG:
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(format.Compression))); err != nil {
			return nil, EncodeError("png", err)
		}
	case FormatWebP:
		data, err := webp.EncodeRGB(img, float32(format.Quality))
		if err != nil {
			return nil, EncodeError("webp", err)
		}
		return data, nil
	case FormatJPEG, "":
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(format.Quality)); err != nil {
			return nil, EncodeError("jpeg", err)
		}
	default:
		return nil, EncodeError(string(format.Kind), errors.Wrapf(ErrUnsupportedFormat, "output format %q", format.Kind))
	}

	return buf.Bytes(), nil
}

// pngLevel maps a compression tier onto the zlib effort used by image/png.
// The standard encoder picks row filters itself, so only effort is tunable.
func pngLevel(c PNGCompression) png.CompressionLevel {
	switch c {
	case PNGFast:
		return png.BestSpeed
	case PNGBest:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// PageFileName builds the output name of variant index of an archive entry:
// {parent}_{stem}_{index:03}.{ext}. Entries at the archive root have an
// empty parent.
func PageFileName(entryPath string, index int, format ImageFormat) string {
	p := strings.ReplaceAll(entryPath, "\\", "/")
	parent := path.Dir(p)
	if parent == "." || parent == "/" {
		parent = ""
	}
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return fmt.Sprintf("%s_%s_%03d.%s", parent, stem, index, format.Extension())
}
