// Package light holds the light value types and the pure brightness/tint blend.
package light

import "fmt"

// Light bounds.
const (
	MinBrightness float32 = 0.01
	MaxBrightness float32 = 1.0

	MinRadius = 6
	MaxRadius = 32

	MaxIntensity = 255
)

// ColorLight is a dynamic light value: a radius and an RGB intensity triple.
type ColorLight struct {
	Radius uint8 `json:"radius"`
	Red    uint8 `json:"red"`
	Green  uint8 `json:"green"`
	Blue   uint8 `json:"blue"`
}

// RGB is a tint triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// White is the tint used when nothing else is known.
var White = RGB{R: 255, G: 255, B: 255}

// Warm is the colour warmth blends toward.
var Warm = RGB{R: 255, G: 220, B: 170}

// RGB returns the light's channels as a tint.
func (l ColorLight) RGB() RGB {
	return RGB{R: l.Red, G: l.Green, B: l.Blue}
}

// Intensity returns the brightest channel.
func (l ColorLight) Intensity() uint8 {
	return max(l.Red, l.Green, l.Blue)
}

// String returns a human-readable form, e.g. "radius 32, rgb 255/255/255".
func (l ColorLight) String() string {
	return fmt.Sprintf("radius %d, rgb %d/%d/%d", l.Radius, l.Red, l.Green, l.Blue)
}

// Hex returns the tint as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Max returns the channel-wise maximum of two lights, radius included.
// The result is never below a on any channel.
func Max(a, b ColorLight) ColorLight {
	return ColorLight{
		Radius: max(a.Radius, b.Radius),
		Red:    max(a.Red, b.Red),
		Green:  max(a.Green, b.Green),
		Blue:   max(a.Blue, b.Blue),
	}
}
