package converter

import (
	"math"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// SplitStrategy decides what happens to double-page spreads.
type SplitStrategy string

const (
	SplitNone           SplitStrategy = "none"
	SplitPages          SplitStrategy = "split"
	SplitRotate         SplitStrategy = "rotate"
	SplitRotateAndSplit SplitStrategy = "rotate-split"
)

// MarginColor is the fill used when a resized page does not cover the device canvas.
type MarginColor string

const (
	MarginNone  MarginColor = "none"
	MarginBlack MarginColor = "black"
	MarginWhite MarginColor = "white"
)

// Value returns the gray level of the margin and whether padding is enabled.
func (m MarginColor) Value() (uint8, bool) {
	switch m {
	case MarginBlack:
		return 0, true
	case MarginWhite:
		return 255, true
	default:
		return 0, false
	}
}

// Config holds the settings of one conversion run. It is treated as an
// immutable value once handed to ProcessArchiveImages.
type Config struct {
	DeviceWidth    int            `koanf:"device_width" default:"1236" validate:"min=1,max=16384"`
	DeviceHeight   int            `koanf:"device_height" default:"1648" validate:"min=1,max=16384"`
	Brightness     int            `koanf:"brightness" default:"-10" validate:"min=-100,max=100"`
	Gamma          float64        `koanf:"gamma" default:"1.8" validate:"min=0.1,max=3"`
	AutoCrop       bool           `koanf:"auto_crop" default:"true"`
	MarginColor    MarginColor    `koanf:"margin_color" default:"none" validate:"oneof=none black white"`
	Split          SplitStrategy  `koanf:"split" default:"rotate-split" validate:"oneof=none split rotate rotate-split"`
	RightToLeft    bool           `koanf:"right_to_left" default:"true"`
	Format         FormatKind     `koanf:"image_format" default:"jpeg" validate:"oneof=jpeg png webp"`
	Quality        int            `koanf:"quality" default:"85" validate:"min=0,max=100"`
	PNGCompression PNGCompression `koanf:"png_compression" default:"default" validate:"oneof=fast default best"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfig returns the Kindle Paperwhite manga defaults.
func DefaultConfig() Config {
	var c Config
	// Only fails on malformed tags.
	if err := defaults.Set(&c); err != nil {
		panic(err)
	}
	return c
}

// Validate rejects out-of-range values before a batch starts.
func (c Config) Validate() error {
	if math.IsNaN(c.Gamma) {
		return ConfigError("gamma", errors.New("gamma is NaN"))
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() == "" {
			return ConfigError(fe.Field(), errors.Errorf("%v fails %s", fe.Value(), fe.Tag()))
		}
		return ConfigError(fe.Field(), errors.Errorf("%v fails %s=%s", fe.Value(), fe.Tag(), fe.Param()))
	}
	return ConfigError("config", errors.WithStack(err))
}

// Clamped returns a copy with every numeric field forced into its valid range.
func (c Config) Clamped() Config {
	c.DeviceWidth = clampInt(c.DeviceWidth, 1, 16384)
	c.DeviceHeight = clampInt(c.DeviceHeight, 1, 16384)
	c.Brightness = clampInt(c.Brightness, -100, 100)
	c.Gamma = clampGamma(c.Gamma)
	c.Quality = clampInt(c.Quality, 0, 100)
	return c
}

// Dimensions returns the target device canvas in pixels.
func (c Config) Dimensions() (int, int) {
	return c.DeviceWidth, c.DeviceHeight
}

// ImageFormat returns the configured page encoding.
func (c Config) ImageFormat() ImageFormat {
	switch c.Format {
	case FormatPNG:
		compression := c.PNGCompression
		if compression == "" {
			compression = PNGDefault
		}
		return PNG(compression)
	case FormatWebP:
		return WebP(c.Quality)
	default:
		return JPEG(c.Quality)
	}
}

func clampGamma(g float64) float64 {
	if math.IsNaN(g) {
		return 1.0
	}
	return math.Max(0.1, math.Min(3.0, g))
}
