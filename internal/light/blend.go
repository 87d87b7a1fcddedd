package light

import "math"

// Blend maps a brightness level, an optional baseline light and an optional tint or warmth
// override to the light value to install.
//
// Brightness is normalised over [MinBrightness, MaxBrightness]: the minimum reproduces the
// baseline (or the fixed dim default), the maximum reaches MaxRadius and full intensity.
// Tint takes priority over warmth; without either the baseline's own colour (or white) is
// kept. The resolved tint is scaled so its brightest channel hits the target intensity.
func Blend(brightness float32, baseline *ColorLight, tint *RGB, warmth *float32) ColorLight {
	t := normalize01(brightness, MinBrightness, MaxBrightness)

	startRadius := MinRadius
	startIntensity := max(1, round(MaxIntensity*MinBrightness))
	if baseline != nil {
		startRadius = clampInt(int(baseline.Radius), MinRadius, MaxRadius)
		startIntensity = clampInt(int(baseline.Intensity()), 1, MaxIntensity)
	}

	radius := lerpInt(startRadius, MaxRadius, t)
	intensity := lerpInt(startIntensity, MaxIntensity, t)

	target := resolveTint(baseline, tint, warmth)
	maxTint := max(1, int(target.R), int(target.G), int(target.B))

	return ColorLight{
		Radius: uint8(clampInt(radius, MinRadius, MaxRadius)),
		Red:    scaleChannel(target.R, intensity, maxTint),
		Green:  scaleChannel(target.G, intensity, maxTint),
		Blue:   scaleChannel(target.B, intensity, maxTint),
	}
}

func resolveTint(baseline *ColorLight, tint *RGB, warmth *float32) RGB {
	if tint != nil {
		return *tint
	}

	base := White
	if baseline != nil {
		base = baseline.RGB()
	}

	if warmth != nil {
		w := ClampWarmth(*warmth)
		return RGB{
			R: uint8(lerpInt(int(base.R), int(Warm.R), w)),
			G: uint8(lerpInt(int(base.G), int(Warm.G), w)),
			B: uint8(lerpInt(int(base.B), int(Warm.B), w)),
		}
	}

	return base
}

func scaleChannel(channel uint8, intensity, maxTint int) uint8 {
	intensity = clampInt(intensity, 0, MaxIntensity)
	maxTint = clampInt(maxTint, 1, 255)
	return uint8(clampInt(round(float32(channel)*float32(intensity)/float32(maxTint)), 0, 255))
}

// ClampBrightness clamps a brightness level into [MinBrightness, MaxBrightness].
// NaN maps to MinBrightness.
func ClampBrightness(v float32) float32 {
	return clamp(v, MinBrightness, MaxBrightness)
}

// ClampWarmth clamps a warmth fraction into [0, 1]. NaN maps to 0.
func ClampWarmth(v float32) float32 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float32) float32 {
	if v != v {
		return lo
	}
	return max(lo, min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func normalize01(v, lo, hi float32) float32 {
	if hi == lo {
		return 0
	}
	return (clamp(v, lo, hi) - lo) / (hi - lo)
}

func lerpInt(a, b int, t float32) int {
	t = clamp(t, 0, 1)
	return round(float32(a) + float32(b-a)*t)
}

// round rounds half up.
func round(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}
