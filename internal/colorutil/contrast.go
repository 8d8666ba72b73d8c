// Package colorutil keeps terminal colors readable on a given background
// using the WCAG 2 contrast ratio.
package colorutil

import "math"

// MinContrast is the WCAG AA ratio for normal text.
const MinContrast = 4.5

type RGB struct {
	R, G, B uint8
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// Luminance is the relative luminance of c in [0, 1].
func (c RGB) Luminance() float64 {
	channel := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.04045 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// ContrastRatio is symmetric and ranges from 1 to 21.
func ContrastRatio(a, b RGB) float64 {
	hi, lo := a.Luminance(), b.Luminance()
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// textOn returns black or white, whichever reads better on bg. Black wins
// ties and any background where it already passes MinContrast.
func textOn(bg RGB) RGB {
	onBlack := ContrastRatio(black, bg)
	if onBlack >= MinContrast || onBlack >= ContrastRatio(white, bg) {
		return black
	}
	return white
}

// EnsureContrast moves fg toward black or white in 10% steps until it
// reaches minRatio against bg (MinContrast when minRatio <= 0).
func EnsureContrast(fg, bg RGB, minRatio float64) RGB {
	if minRatio <= 0 {
		minRatio = MinContrast
	}
	target := textOn(bg)
	for step := 0; step <= 10; step++ {
		c := Mix(fg, target, float64(step)/10)
		if ContrastRatio(c, bg) >= minRatio {
			return c
		}
	}
	return target
}

// Mix blends a toward b; t=0 returns a and t=1 returns b.
func Mix(a, b RGB, t float64) RGB {
	t = math.Max(0, math.Min(1, t))
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B)}
}

// ANSI256 maps c to the closest entry of the xterm 256 color palette,
// using the grayscale ramp for neutral colors.
func (c RGB) ANSI256() int {
	if c.R == c.G && c.G == c.B {
		switch {
		case c.R < 8:
			return 16
		case c.R > 248:
			return 231
		}
		return 232 + (int(c.R)-8)*24/247
	}
	cube := func(v uint8) int { return int(v) * 5 / 255 }
	return 16 + 36*cube(c.R) + 6*cube(c.G) + cube(c.B)
}
