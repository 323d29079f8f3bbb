package reader

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kindle-pw-11", "kindle-pw-11"},
		{"Kindle PW 11", "kindle-pw-11"},
		{"kindle_pw_11", "kindle-pw-11"},
		{"  Kobo Sage ", "kobo-sage"},
		{"iPad 10.9", "ipad-109"},
		{"kindle -- scribe", "kindle-scribe"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestGetProfile(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		width  int
		height int
	}{
		{"kindle-pw-11", "kindle-pw-11", 1236, 1648},
		{"Kindle Scribe", "kindle-scribe", 1860, 2480},
		{"kindle", "kindle-pw-11", 1236, 1648},
		{"Kindle Paperwhite", "kindle-pw-11", 1236, 1648},
		{"kobo", "kobo-libra-2", 1264, 1680},
		{"remarkable", "remarkable-2", 1404, 1872},
		{"iPad 10.9", "ipad-109", 1640, 2360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := GetProfile(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.key, p.Key)
			w, h := p.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
			assert.False(t, p.IsCustom())
		})
	}
}

func TestGetProfileUnknown(t *testing.T) {
	_, err := GetProfile("nook-glowlight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown device "nook-glowlight"`)
	assert.Contains(t, err.Error(), "kindle-pw-11")
}

func TestColorDevices(t *testing.T) {
	for _, p := range ListProfiles() {
		assert.Equal(t, p.Manufacturer == "Apple", p.Capabilities.SupportsColor, p.Key)
	}
}

func TestListProfiles(t *testing.T) {
	list := ListProfiles()
	require.Len(t, list, 18)

	keys := Keys()
	assert.True(t, sort.StringsAreSorted(keys))
	for i, p := range list {
		assert.Equal(t, keys[i], p.Key)
		assert.Positive(t, p.Capabilities.ScreenWidth)
		assert.Less(t, p.Capabilities.ScreenWidth, p.Capabilities.ScreenHeight, "%s is not portrait", p.Key)
	}

	_, ok := profiles[DefaultKey]
	assert.True(t, ok)
}

func TestCustom(t *testing.T) {
	p, err := Custom(1000, 1400)
	require.NoError(t, err)
	assert.True(t, p.IsCustom())
	assert.Equal(t, "Custom (1000x1400)", p.String())

	_, err = Custom(0, 1400)
	assert.Error(t, err)
	_, err = Custom(1000, -1)
	assert.Error(t, err)
}

func TestProfileString(t *testing.T) {
	p, err := GetProfile("kobo-clara-2e")
	require.NoError(t, err)
	assert.Equal(t, "Kobo Clara 2E (1072x1448)", p.String())
}
