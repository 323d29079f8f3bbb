package reader

import "fmt"

// DeviceCapabilities defines the display of an e-reader
type DeviceCapabilities struct {
	ScreenWidth  int // Width in pixels, portrait orientation
	ScreenHeight int // Height in pixels
	// Colour panels still get grayscale pages; the flag is informational.
	SupportsColor bool
}

// Profile represents a device preset
type Profile struct {
	Key          string
	Name         string
	Manufacturer string
	Capabilities DeviceCapabilities
}

// Dimensions returns the portrait canvas of the device.
func (p Profile) Dimensions() (int, int) {
	return p.Capabilities.ScreenWidth, p.Capabilities.ScreenHeight
}

// IsCustom reports whether the profile was built from explicit dimensions.
func (p Profile) IsCustom() bool {
	return p.Key == CustomKey
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%dx%d)", p.Name, p.Capabilities.ScreenWidth, p.Capabilities.ScreenHeight)
}
