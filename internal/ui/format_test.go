package ui

import (
	"testing"

	"stable-fluids/internal/core"
)

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		step  float64
		value float64
		want  string
	}{
		{0.0001, 0.00012, "0.0001"},
		{0.001, 0.0123, "0.012"},
		{0.01, 0.1, "0.10"},
		{1, 5, "5.0"},
		{0, 0.5, "0.50"},
	}
	for _, tc := range cases {
		got := formatFloat(core.ParameterControl{Step: tc.step}, tc.value)
		if got != tc.want {
			t.Fatalf("formatFloat(step %v, %v) = %q, want %q", tc.step, tc.value, got, tc.want)
		}
	}
}

func TestArrowColorRange(t *testing.T) {
	slow, fast := arrowColor(-1), arrowColor(2)
	if slow.R != 80 || slow.A != 150 {
		t.Fatalf("slow colour %v", slow)
	}
	if fast.R != 250 || fast.G != 250 || fast.B != 250 || fast.A != 250 {
		t.Fatalf("fast colour %v", fast)
	}
}
