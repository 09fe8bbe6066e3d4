package metadata

import (
	"fmt"
	"math"
)

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// FormatAspectRatio reduces width/height by GCD and labels common ratios.
// Awkward exact fractions (large reduced terms) are approximated to the
// nearest common ratio when the decimal ratio is within 0.05 of it.
func FormatAspectRatio(width, height int) string {
	divisor := gcd(width, height)
	w := width / divisor
	h := height / divisor

	if (w == 3 && h == 2) || (w == 2 && h == 3) {
		return "3:2"
	}
	if (w == 4 && h == 3) || (w == 3 && h == 4) {
		return "4:3"
	}
	if (w == 16 && h == 9) || (w == 9 && h == 16) {
		return "16:9"
	}
	if w == 1 && h == 1 {
		return "1:1"
	}

	if w > 20 || h > 20 {
		ratio := float64(width) / float64(height)
		switch {
		case math.Abs(ratio-1.5) < 0.05:
			return "3:2"
		case math.Abs(ratio-1.33) < 0.05:
			return "4:3"
		case math.Abs(ratio-1.78) < 0.05:
			return "16:9"
		case math.Abs(ratio-0.67) < 0.05:
			return "2:3"
		case math.Abs(ratio-0.75) < 0.05:
			return "3:4"
		case math.Abs(ratio-0.56) < 0.05:
			return "9:16"
		}
	}

	return fmt.Sprintf("%d:%d", w, h)
}
