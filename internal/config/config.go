// Package config loads conversion settings from defaults, an optional YAML
// file and COMICALLY_ environment variables, in that order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/alde/comically/pkg/converter"
	"github.com/alde/comically/pkg/reader"
)

// EnvPrefix is stripped from environment variables; COMICALLY_GAMMA sets gamma.
const EnvPrefix = "COMICALLY_"

// Settings are the run options that sit around the pipeline config.
type Settings struct {
	Device  string `koanf:"device" default:"kindle-pw-11" validate:"required"`
	Workers int    `koanf:"workers" validate:"min=0,max=512"`
	Pages   string `koanf:"pages"`

	// Pipeline is filled from the same flat keys as the fields above.
	Pipeline converter.Config `koanf:"-"`
}

// Load reads settings. An empty path skips the file layer; a path that does
// not exist is an error.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	return fromKoanf(k)
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func fromKoanf(k *koanf.Koanf) (*Settings, error) {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := k.Unmarshal("", s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}
	if err := validator.New().Struct(s); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}

	// Defaults are applied once up front; the layers then only overwrite keys
	// they actually set, so a configured false survives.
	s.Pipeline = converter.DefaultConfig()
	if reader.Normalize(s.Device) != reader.CustomKey {
		profile, err := reader.GetProfile(s.Device)
		if err != nil {
			return nil, err
		}
		s.Pipeline.DeviceWidth, s.Pipeline.DeviceHeight = profile.Dimensions()
	}
	if err := k.Unmarshal("", &s.Pipeline); err != nil {
		return nil, errors.Wrap(err, "decoding pipeline settings")
	}

	return s, nil
}
