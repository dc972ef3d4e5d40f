package termcolor

import "math"

func channelLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Luminance is the WCAG relative luminance of c.
func (c RGB) Luminance() float64 {
	return 0.2126*channelLinear(c[0]) + 0.7152*channelLinear(c[1]) + 0.0722*channelLinear(c[2])
}

// ContrastRatio returns the WCAG contrast ratio between two colors, 1 to 21.
func ContrastRatio(a, b RGB) float64 {
	hi, lo := a.Luminance(), b.Luminance()
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// EnsureContrast moves fg toward black or white, whichever contrasts more with
// bg, until the ratio reaches minRatio.
func EnsureContrast(fg, bg RGB, minRatio float64) RGB {
	if minRatio <= 0 {
		minRatio = 4.5
	}
	if ContrastRatio(fg, bg) >= minRatio {
		return fg
	}
	target := RGB{0, 0, 0}
	if ContrastRatio(RGB{255, 255, 255}, bg) > ContrastRatio(target, bg) {
		target = RGB{255, 255, 255}
	}
	for step := 1; step <= 10; step++ {
		t := float64(step) / 10
		mixed := RGB{mix(fg[0], target[0], t), mix(fg[1], target[1], t), mix(fg[2], target[2], t)}
		if ContrastRatio(mixed, bg) >= minRatio {
			return mixed
		}
	}
	return target
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func rgbToANSI256(c RGB) int {
	r, g, b := c[0], c[1], c[2]
	if r == g && g == b {
		switch {
		case r < 8:
			return 16
		case r > 248:
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	return 16 + 36*(int(r)*5/255) + 6*(int(g)*5/255) + int(b)*5/255
}
