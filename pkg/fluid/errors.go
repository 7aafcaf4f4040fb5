package fluid

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

var (
	// ErrGridSize reports an interior resolution below 1.
	ErrGridSize = errors.New("fluid: grid size must be at least 1")
	// ErrBufferSize reports a buffer whose length is not (n+2)^2.
	ErrBufferSize = errors.New("fluid: buffer length does not match grid")
	// ErrNegativeParameter reports a negative, infinite or NaN dt,
	// diffusion or viscosity. Negative coefficients can drive the
	// relaxation divisor 1+4a to zero.
	ErrNegativeParameter = errors.New("fluid: parameter must be finite and non-negative")
	// ErrParameterRange reports finite parameters whose scaled coefficients
	// (dt*diff*n*n, dt*visc*n*n or dt*n) overflow float32.
	ErrParameterRange = errors.New("fluid: parameter overflows at this grid size")
	// ErrAliased reports two buffers of one call sharing memory.
	ErrAliased = errors.New("fluid: buffers overlap")
	// ErrIterations reports a relaxation sweep count below 1.
	ErrIterations = errors.New("fluid: iterations must be at least 1")
)

func checkGrid(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: n=%d", ErrGridSize, n)
	}
	return nil
}

func checkParam(name string, v float32) error {
	if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fmt.Errorf("%w: %s=%g", ErrNegativeParameter, name, v)
	}
	return nil
}

// checkScaled rejects parameters whose solver coefficients are not finite
// at grid size n, computed the way diffuse and advect compute them.
func checkScaled(n int, p Params) error {
	h := float32(n)
	if dt0 := p.DT * h; isInf32(dt0) {
		return fmt.Errorf("%w: dt*n=%g", ErrParameterRange, dt0)
	}
	for _, c := range []struct {
		name  string
		coeff float32
	}{{"diff", p.Diff}, {"visc", p.Visc}} {
		a := p.DT * c.coeff * h * h
		if isInf32(a) || isInf32(1+4*a) {
			return fmt.Errorf("%w: dt*%s*n*n=%g at n=%d", ErrParameterRange, c.name, a, n)
		}
	}
	return nil
}

func isInf32(v float32) bool { return math.IsInf(float64(v), 0) }

// checkBuffers verifies every buffer has the padded length for n and that
// no two of them overlap.
func checkBuffers(n int, names []string, bufs ...[]float32) error {
	want := Cells(n)
	for k, b := range bufs {
		if len(b) != want {
			return fmt.Errorf("%w: %s has %d cells, want %d", ErrBufferSize, names[k], len(b), want)
		}
	}
	for a := 0; a < len(bufs); a++ {
		for b := a + 1; b < len(bufs); b++ {
			if overlaps(bufs[a], bufs[b]) {
				return fmt.Errorf("%w: %s and %s", ErrAliased, names[a], names[b])
			}
		}
	}
	return nil
}

func overlaps(a, b []float32) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const size = unsafe.Sizeof(float32(0))
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	a1 := a0 + uintptr(len(a))*size
	b1 := b0 + uintptr(len(b))*size
	return a0 < b1 && b0 < a1
}
