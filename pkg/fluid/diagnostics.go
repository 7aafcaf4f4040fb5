package fluid

import "math"

// Divergence writes the discrete divergence of (vx, vy) into out for every
// interior cell, using the same centred difference as the projection, in
// grid units: 0.5*((vx right - vx left) + (vy up - vy down)) / n.
func Divergence(n int, vx, vy, out []float32) {
	stride := n + 2
	h := float32(n)
	Interior(n, func(_, _, idx int) {
		out[idx] = 0.5 * ((vx[idx+1] - vx[idx-1]) + (vy[idx+stride] - vy[idx-stride])) / h
	})
}

// MaxDivergence returns the largest absolute interior divergence.
func MaxDivergence(n int, vx, vy []float32) float32 {
	stride := n + 2
	h := float32(n)
	var best float32
	Interior(n, func(_, _, idx int) {
		d := 0.5 * ((vx[idx+1] - vx[idx-1]) + (vy[idx+stride] - vy[idx-stride])) / h
		if d < 0 {
			d = -d
		}
		best = max(best, d)
	})
	return best
}

// InteriorSum returns the sum of x over the interior, accumulated in
// float64.
func InteriorSum(n int, x []float32) float64 {
	var sum float64
	Interior(n, func(_, _, idx int) { sum += float64(x[idx]) })
	return sum
}

// MaxSpeed2 returns the largest squared speed over the whole padded grid.
func MaxSpeed2(vx, vy []float32) float32 {
	var best float32
	for k := range vx {
		best = max(best, vx[k]*vx[k]+vy[k]*vy[k])
	}
	return best
}

// MaxValue returns the largest value in x, or -Inf for an empty buffer.
func MaxValue(x []float32) float32 {
	best := float32(math.Inf(-1))
	for _, v := range x {
		best = max(best, v)
	}
	return best
}
