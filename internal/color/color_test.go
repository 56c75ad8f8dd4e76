package color

import (
	"fmt"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"FF0000", RGB{255, 0, 0}, true},
		{"00ff00", RGB{0, 255, 0}, true},
		{"78BEFF", RGB{120, 190, 255}, true},
		{"000000", RGB{}, true},
		{"zzzzzz", RGB{}, false},
		{"12", RGB{}, false},
		{"", RGB{}, false},
		{"#FF0000", RGB{}, false},
		{"FF00000", RGB{}, false},
		{"+12345", RGB{}, false},
		{"12 456", RGB{}, false},
	}

	for _, tt := range tests {
		got, ok := HexToRGB(tt.in)
		if ok != tt.ok {
			t.Errorf("HexToRGB(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("HexToRGB(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHexRoundTripSample(t *testing.T) {
	for v := 0; v < 1<<24; v += 65521 {
		c := RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
		hex := fmt.Sprintf("%06x", v)

		got, ok := HexToRGB(hex)
		if !ok {
			t.Fatalf("HexToRGB(%q) failed", hex)
		}
		if got != c {
			t.Fatalf("HexToRGB(%q) = %v, want %v", hex, got, c)
		}
		if got.String() != c.String() {
			t.Fatalf("display string mismatch for %q: %s vs %s", hex, got, c)
		}
		if back, _ := HexToRGB(got.Hex()[1:]); back != c {
			t.Fatalf("Hex() round trip for %v gave %v", c, back)
		}
	}
}

func TestDisplayStrings(t *testing.T) {
	c := RGB{R: 255, G: 200, B: 0}
	if got := c.String(); got != "rgb(255, 200, 0)" {
		t.Errorf("String() = %q", got)
	}
	if got := c.Hex(); got != "#FFC800" {
		t.Errorf("Hex() = %q", got)
	}
}
