package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alde/comically/pkg/converter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comically.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "kindle-pw-11", s.Device)
	assert.Zero(t, s.Workers)
	assert.Empty(t, s.Pages)
	assert.Equal(t, converter.DefaultConfig(), s.Pipeline)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device: kobo-sage
workers: 6
gamma: 1.2
auto_crop: false
split: none
image_format: webp
quality: 70
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "kobo-sage", s.Device)
	assert.Equal(t, 6, s.Workers)
	assert.Equal(t, 1440, s.Pipeline.DeviceWidth)
	assert.Equal(t, 1920, s.Pipeline.DeviceHeight)
	assert.InDelta(t, 1.2, s.Pipeline.Gamma, 1e-9)
	assert.False(t, s.Pipeline.AutoCrop)
	assert.Equal(t, converter.SplitNone, s.Pipeline.Split)
	assert.Equal(t, converter.WebP(70), s.Pipeline.ImageFormat())
	assert.True(t, s.Pipeline.RightToLeft)
}

func TestLoadExplicitDimensionsOverridePreset(t *testing.T) {
	path := writeConfig(t, "device: kobo-sage\ndevice_width: 1000\n")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Pipeline.DeviceWidth)
	assert.Equal(t, 1920, s.Pipeline.DeviceHeight)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, "gamma: 1.2\nbrightness: 5\n")
	t.Setenv("COMICALLY_GAMMA", "2.2")
	t.Setenv("COMICALLY_AUTO_CROP", "false")
	t.Setenv("COMICALLY_DEVICE", "remarkable")

	s, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 2.2, s.Pipeline.Gamma, 1e-9)
	assert.Equal(t, 5, s.Pipeline.Brightness)
	assert.False(t, s.Pipeline.AutoCrop)
	assert.Equal(t, 1404, s.Pipeline.DeviceWidth)
}

func TestLoadCustomDevice(t *testing.T) {
	path := writeConfig(t, "device: custom\ndevice_width: 800\ndevice_height: 1200\n")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, s.Pipeline.DeviceWidth)
	assert.Equal(t, 1200, s.Pipeline.DeviceHeight)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown device", func(t *testing.T) {
		_, err := Load(writeConfig(t, "device: nook\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown device")
	})

	t.Run("too many workers", func(t *testing.T) {
		_, err := Load(writeConfig(t, "workers: 4096\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "gamma: [1.2\n"))
		assert.Error(t, err)
	})
}
