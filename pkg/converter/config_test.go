package converter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	w, h := cfg.Dimensions()
	assert.Equal(t, 1236, w)
	assert.Equal(t, 1648, h)
	assert.Equal(t, -10, cfg.Brightness)
	assert.InDelta(t, 1.8, cfg.Gamma, 1e-9)
	assert.True(t, cfg.AutoCrop)
	assert.True(t, cfg.RightToLeft)
	assert.Equal(t, MarginNone, cfg.MarginColor)
	assert.Equal(t, SplitRotateAndSplit, cfg.Split)
	assert.Equal(t, JPEG(85), cfg.ImageFormat())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"gamma too high", func(c *Config) { c.Gamma = 3.5 }, "gamma"},
		{"gamma too low", func(c *Config) { c.Gamma = 0.05 }, "gamma"},
		{"gamma NaN", func(c *Config) { c.Gamma = math.NaN() }, "gamma"},
		{"brightness", func(c *Config) { c.Brightness = -101 }, "brightness"},
		{"quality", func(c *Config) { c.Quality = 101 }, "quality"},
		{"width", func(c *Config) { c.DeviceWidth = 0 }, "device_width"},
		{"split", func(c *Config) { c.Split = "diagonal" }, "split"},
		{"margin", func(c *Config) { c.MarginColor = "red" }, "margin_color"},
		{"format", func(c *Config) { c.Format = "tiff" }, "image_format"},
		{"png compression", func(c *Config) { c.PNGCompression = "max" }, "png_compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsCategory(err, CategoryConfig))

			var pe *ProcessingError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.field, pe.Op)
		})
	}
}

func TestConfigValidateBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gamma = 0.1
	cfg.Brightness = 100
	cfg.Quality = 0
	assert.NoError(t, cfg.Validate())

	cfg.Gamma = 3.0
	cfg.Brightness = -100
	cfg.Quality = 100
	assert.NoError(t, cfg.Validate())
}

func TestConfigClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gamma = 12
	cfg.Brightness = -400
	cfg.Quality = 180
	cfg.DeviceWidth = -5

	c := cfg.Clamped()
	assert.Equal(t, 3.0, c.Gamma)
	assert.Equal(t, -100, c.Brightness)
	assert.Equal(t, 100, c.Quality)
	assert.Equal(t, 1, c.DeviceWidth)
	assert.NoError(t, c.Validate())

	cfg.Gamma = math.NaN()
	assert.Equal(t, 1.0, cfg.Clamped().Gamma)
}

func TestConfigImageFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quality = 70

	cfg.Format = FormatWebP
	assert.Equal(t, WebP(70), cfg.ImageFormat())

	cfg.Format = FormatPNG
	cfg.PNGCompression = PNGFast
	assert.Equal(t, PNG(PNGFast), cfg.ImageFormat())

	cfg.PNGCompression = ""
	assert.Equal(t, PNG(PNGDefault), cfg.ImageFormat())
}

func TestMarginColorValue(t *testing.T) {
	v, ok := MarginBlack.Value()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), v)

	v, ok = MarginWhite.Value()
	assert.True(t, ok)
	assert.Equal(t, uint8(255), v)

	_, ok = MarginNone.Value()
	assert.False(t, ok)
}
