package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies on the grid.
func (g *ByteGrid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// Set stores the quantized value of v at (x, y); see Quantize.
func (g *ByteGrid) Set(x, y int, v, scale float32) {
	g.data[g.Index(x, y)] = Quantize(v, scale)
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	clear(g.data)
}

// Quantize maps v in [0, scale] onto [0, 255], rounding to nearest. Values
// above scale saturate; NaN, non-positive values and a non-positive scale
// yield zero.
func Quantize(v, scale float32) uint8 {
	if scale <= 0 || !(v > 0) {
		return 0
	}
	q := v / scale * 255
	if q >= 255 {
		return 255
	}
	return uint8(q + 0.5)
}
