package light

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRGB is returned when a tint string cannot be parsed.
var ErrInvalidRGB = errors.New("invalid rgb")

// ParseRGB parses a tint from "#rrggbb", "rrggbb", "0xrrggbb" or "r,g,b".
// Decimal channels above 255 are clamped rather than rejected.
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return parseTriple(s)
	}

	hex := strings.TrimPrefix(s, "#")
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidRGB, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidRGB, s)
	}
	return FromInt(uint32(v)), nil
}

// FromInt unpacks a 0xRRGGBB integer. Bits above the low 24 are ignored.
func FromInt(v uint32) RGB {
	v &= 0xFFFFFF
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func parseTriple(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidRGB, s)
	}

	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidRGB, s)
		}
		ch[i] = uint8(clampInt(n, 0, 255))
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
