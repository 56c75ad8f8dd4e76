package color // chat colours: RGB values, hex parsing, proximity fade, inline colour markup

import (
	"fmt"
	"math"
	"strconv"
)

// RGB is an 8-bit per channel colour
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Common colours used by the chat commands and notifications
var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{}
)

// String returns the display form, e.g. "rgb(255, 200, 0)"
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the colour as "#RRGGBB" for terminal styling
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Ptr returns a pointer to a copy of c, for optional colour fields
func (c RGB) Ptr() *RGB {
	return &c
}

// HexToRGB parses exactly six hex digits ("FF0000") into a colour.
// It reports false for any other length or for non-hex characters.
func HexToRGB(hex string) (RGB, bool) {
	if len(hex) != 6 {
		return RGB{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: uint8((n >> 16) & 0xFF),
		G: uint8((n >> 8) & 0xFF),
		B: uint8(n & 0xFF),
	}, true
}

// clampChannel rounds v to the nearest integer and clamps it into [0, 255]
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
