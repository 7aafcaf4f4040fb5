// Package render turns quantized cell intensities into RGBA pixels.
package render

import (
	"image/color"
	"math"
)

// Palette maps a cell byte to a colour.
type Palette [256]color.RGBA

// HeatPalette ramps blue, cyan, green, yellow to red. Zero is black so
// empty fluid stays dark.
func HeatPalette() *Palette {
	var p Palette
	for i := range p {
		p[i] = sciColor(float64(i) / 255)
	}
	p[0] = color.RGBA{A: 0xff}
	return &p
}

// GrayPalette maps intensity linearly to gray.
func GrayPalette() *Palette {
	var p Palette
	for i := range p {
		v := uint8(i)
		p[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	return &p
}

// sciColor splits [0, 1] into four quarters, each sweeping one channel.
func sciColor(t float64) color.RGBA {
	t = math.Min(math.Max(t, 0), 1-1e-6)
	const quarter = 0.25
	band := math.Floor(t / quarter)
	s := (t - band*quarter) / quarter
	var r, g, b float64
	switch band {
	case 0:
		r, g, b = 0, s, 1
	case 1:
		r, g, b = 0, 1, 1-s
	case 2:
		r, g, b = s, 1, 0
	default:
		r, g, b = 1, 1-s, 0
	}
	return color.RGBA{
		R: uint8(math.Round(255 * r)),
		G: uint8(math.Round(255 * g)),
		B: uint8(math.Round(255 * b)),
		A: 0xff,
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels in buf, which must
// hold 4 bytes per cell.
func fillPaletteRGBA(buf []byte, cells []uint8, p *Palette) {
	for i, c := range cells {
		col := p[c]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
