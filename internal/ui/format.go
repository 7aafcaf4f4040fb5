package ui

import (
	"image/color"
	"math"
	"strconv"

	"stable-fluids/internal/core"
)

// formatFloat prints value with enough decimals to show one control step.
func formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// arrowColor fades from translucent sky blue for slow flow to bright white
// for the fastest arrows on screen.
func arrowColor(t float64) color.RGBA {
	t = math.Min(math.Max(t, 0), 1)
	return color.RGBA{
		R: uint8(math.Round(80 + 170*t)),
		G: uint8(math.Round(170 + 80*t)),
		B: uint8(math.Round(230 + 20*t)),
		A: uint8(math.Round(150 + 100*t)),
	}
}
