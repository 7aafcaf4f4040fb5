package fluid

// Every buffer handled by this package is an (n+2)×(n+2) padded grid: an n×n
// interior surrounded by a one-cell ghost ring. Cells are flattened with the
// x coordinate i varying fastest, so (i, j) lives at i + (n+2)*j. The
// mirrored boundary kinds, the advection trace, and every interior loop
// (j outer, i inner) follow this convention.

// Index returns the linear offset of cell (i, j) for an n×n interior.
// i and j range over [0, n+1]; no bounds checking is performed.
func Index(i, j, n int) int { return i + (n+2)*j }

// Cells returns the length of a padded buffer for an n×n interior.
func Cells(n int) int { return (n + 2) * (n + 2) }

// NewField allocates a zeroed padded buffer for an n×n interior.
func NewField(n int) []float32 { return make([]float32, Cells(n)) }

// Interior calls fn for every interior cell in raster order.
func Interior(n int, fn func(i, j, idx int)) {
	for j := 1; j <= n; j++ {
		row := (n + 2) * j
		for i := 1; i <= n; i++ {
			fn(i, j, row+i)
		}
	}
}
