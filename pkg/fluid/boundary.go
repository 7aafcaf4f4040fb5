package fluid

// Boundary selects how the ghost ring is filled from the interior.
type Boundary int

const (
	// BoundaryNone copies the adjacent interior value everywhere. Used for
	// density, pressure and divergence.
	BoundaryNone Boundary = iota
	// BoundaryMirrorX negates the ghost columns i=0 and i=n+1, which keeps a
	// horizontal velocity component from crossing the left and right walls.
	BoundaryMirrorX
	// BoundaryMirrorY negates the ghost rows j=0 and j=n+1 for the vertical
	// velocity component.
	BoundaryMirrorY
)

func (b Boundary) String() string {
	switch b {
	case BoundaryNone:
		return "none"
	case BoundaryMirrorX:
		return "mirror-x"
	case BoundaryMirrorY:
		return "mirror-y"
	default:
		return "unknown"
	}
}

// SetBoundary fills the ghost ring of x from its interior. Edge ghosts copy
// their interior neighbour, negated on the walls normal to a mirrored
// component. Corners are written last as the mean of their two edge
// neighbours, so they always see the freshly written edges. Interior cells
// are never touched.
func SetBoundary(n int, b Boundary, x []float32) {
	stride := n + 2
	for k := 1; k <= n; k++ {
		row := stride * k
		left, right := x[row+1], x[row+n]
		if b == BoundaryMirrorX {
			left, right = -left, -right
		}
		x[row] = left
		x[row+n+1] = right

		low, high := x[stride+k], x[stride*n+k]
		if b == BoundaryMirrorY {
			low, high = -low, -high
		}
		x[k] = low
		x[stride*(n+1)+k] = high
	}

	x[Index(0, 0, n)] = 0.5 * (x[Index(1, 0, n)] + x[Index(0, 1, n)])
	x[Index(0, n+1, n)] = 0.5 * (x[Index(1, n+1, n)] + x[Index(0, n, n)])
	x[Index(n+1, 0, n)] = 0.5 * (x[Index(n, 0, n)] + x[Index(n+1, 1, n)])
	x[Index(n+1, n+1, n)] = 0.5 * (x[Index(n, n+1, n)] + x[Index(n+1, n, n)])
}
