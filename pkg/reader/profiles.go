package reader

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// CustomKey names a device described only by its dimensions.
const CustomKey = "custom"

// DefaultKey is the preset used when no device is chosen.
const DefaultKey = "kindle-pw-11"

func preset(key, name, manufacturer string, width, height int, color bool) Profile {
	return Profile{
		Key:          key,
		Name:         name,
		Manufacturer: manufacturer,
		Capabilities: DeviceCapabilities{
			ScreenWidth:   width,
			ScreenHeight:  height,
			SupportsColor: color,
		},
	}
}

// Available device presets
var profiles = map[string]Profile{
	"kindle-pw-11":   preset("kindle-pw-11", "Kindle PW 11", "Amazon", 1236, 1648, false),
	"kindle-pw-12":   preset("kindle-pw-12", "Kindle PW 12", "Amazon", 1264, 1680, false),
	"kindle-oasis":   preset("kindle-oasis", "Kindle Oasis", "Amazon", 1264, 1680, false),
	"kindle-scribe":  preset("kindle-scribe", "Kindle Scribe", "Amazon", 1860, 2480, false),
	"kindle-basic":   preset("kindle-basic", "Kindle Basic", "Amazon", 600, 800, false),
	"kindle-11":      preset("kindle-11", "Kindle 11", "Amazon", 1072, 1448, false),
	"kobo-clara-hd":  preset("kobo-clara-hd", "Kobo Clara HD", "Kobo", 1072, 1448, false),
	"kobo-clara-2e":  preset("kobo-clara-2e", "Kobo Clara 2E", "Kobo", 1072, 1448, false),
	"kobo-libra-2":   preset("kobo-libra-2", "Kobo Libra 2", "Kobo", 1264, 1680, false),
	"kobo-sage":      preset("kobo-sage", "Kobo Sage", "Kobo", 1440, 1920, false),
	"kobo-elipsa":    preset("kobo-elipsa", "Kobo Elipsa", "Kobo", 1404, 1872, false),
	"remarkable-2":   preset("remarkable-2", "reMarkable 2", "reMarkable", 1404, 1872, false),
	"ipad-mini":      preset("ipad-mini", "iPad Mini", "Apple", 1488, 2266, true),
	"ipad-109":       preset("ipad-109", "iPad 10.9", "Apple", 1640, 2360, true),
	"ipad-pro-11":    preset("ipad-pro-11", "iPad Pro 11", "Apple", 1668, 2388, true),
	"onyx-boox-nova": preset("onyx-boox-nova", "Onyx Boox Nova", "Onyx", 1200, 1600, false),
	"onyx-boox-note": preset("onyx-boox-note", "Onyx Boox Note", "Onyx", 1404, 1872, false),
	"pocketbook-era": preset("pocketbook-era", "PocketBook Era", "PocketBook", 1200, 1600, false),
}

var aliases = map[string]string{
	"kindle":            "kindle-pw-11",
	"kindle-paperwhite": "kindle-pw-11",
	"kobo":              "kobo-libra-2",
	"remarkable":        "remarkable-2",
}

// Normalize turns a user-typed device name into a preset key:
// "Kindle PW 11" and "kindle_pw_11" both become "kindle-pw-11".
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "-", "_", "-", ".", "").Replace(n)
	for strings.Contains(n, "--") {
		n = strings.ReplaceAll(n, "--", "-")
	}
	return n
}

// GetProfile returns a device preset by name or alias
func GetProfile(name string) (Profile, error) {
	key := Normalize(name)
	if target, ok := aliases[key]; ok {
		key = target
	}

	if profile, exists := profiles[key]; exists {
		return profile, nil
	}

	return Profile{}, errors.Errorf("unknown device %q, available devices: %s", name, strings.Join(Keys(), ", "))
}

// Custom returns a profile for a device that is not a preset.
func Custom(width, height int) (Profile, error) {
	if width <= 0 || height <= 0 {
		return Profile{}, errors.Errorf("custom device needs positive dimensions, got %dx%d", width, height)
	}
	return preset(CustomKey, "Custom", "", width, height, false), nil
}

// Keys returns every preset key in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for key := range profiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ListProfiles returns all presets ordered by key
func ListProfiles() []Profile {
	list := make([]Profile, 0, len(profiles))
	for _, key := range Keys() {
		list = append(list, profiles[key])
	}
	return list
}
