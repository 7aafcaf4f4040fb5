package fluid

import (
	"fmt"
	"strings"
)

// DefaultIterations is the number of relaxation sweeps used when no
// WithIterations option is given. More sweeps sharpen diffusion and remove
// more divergence per projection; fewer sweeps run faster.
const DefaultIterations = 20

// Ordering selects the sweep order of the relaxation solver.
type Ordering int

const (
	// OrderingGaussSeidel sweeps the interior once per iteration in raster
	// order, reusing values written earlier in the same sweep.
	OrderingGaussSeidel Ordering = iota
	// OrderingRedBlack updates the checkerboard's red cells and then its
	// black cells. Each colour only reads the other, so its rows can run in
	// parallel. Results differ numerically from OrderingGaussSeidel.
	OrderingRedBlack
)

func (o Ordering) String() string {
	switch o {
	case OrderingGaussSeidel:
		return "gauss-seidel"
	case OrderingRedBlack:
		return "red-black"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// ParseOrdering maps a flag value onto an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gauss-seidel", "gs", "raster":
		return OrderingGaussSeidel, nil
	case "red-black", "rb":
		return OrderingRedBlack, nil
	}
	return 0, fmt.Errorf("fluid: unknown ordering %q", s)
}

// relax solves x = (x0 + a*(sum of the four neighbours of x)) / c over the
// interior with a fixed number of sweeps, re-applying the boundary after
// each one. x and x0 must not overlap.
func (s *Solver) relax(b Boundary, x, x0 []float32, a, c float32) {
	if s.ordering == OrderingRedBlack {
		s.relaxRedBlack(b, x, x0, a, c)
		return
	}
	n := s.n
	stride := n + 2
	for k := 0; k < s.iterations; k++ {
		for j := 1; j <= n; j++ {
			row := stride * j
			for i := 1; i <= n; i++ {
				idx := row + i
				x[idx] = (x0[idx] + a*(x[idx-1]+x[idx+1]+x[idx-stride]+x[idx+stride])) / c
			}
		}
		SetBoundary(n, b, x)
	}
}

func (s *Solver) relaxRedBlack(b Boundary, x, x0 []float32, a, c float32) {
	n := s.n
	stride := n + 2
	for k := 0; k < s.iterations; k++ {
		for colour := 0; colour < 2; colour++ {
			forRows(1, n+1, s.workers, func(j int) {
				row := stride * j
				// first i >= 1 with (i+j)%2 == colour
				for i := 1 + (1+j+colour)%2; i <= n; i += 2 {
					idx := row + i
					x[idx] = (x0[idx] + a*(x[idx-1]+x[idx+1]+x[idx-stride]+x[idx+stride])) / c
				}
			})
		}
		SetBoundary(n, b, x)
	}
}
