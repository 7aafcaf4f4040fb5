package fluid

// advect moves d0 along (vx, vy) for one timestep and writes the result into
// d. Each interior cell traces back to where its content came from, clamps
// that point into [0.5, n+0.5] (NaN maps to 0.5) and samples d0 bilinearly there. d must not
// overlap d0, vx or vy.
func (s *Solver) advect(b Boundary, d, d0, vx, vy []float32, dt float32) {
	n := s.n
	stride := n + 2
	dt0 := dt * float32(n)
	hi := float32(n) + 0.5
	forRows(1, n+1, s.workers, func(j int) {
		row := stride * j
		for i := 1; i <= n; i++ {
			idx := row + i
			x := float32(i) - dt0*vx[idx]
			y := float32(j) - dt0*vy[idx]
			x = clampTrace(x, hi)
			y = clampTrace(y, hi)

			i0, j0 := int(x), int(y)
			s1 := x - float32(i0)
			s0 := 1 - s1
			t1 := y - float32(j0)
			t0 := 1 - t1

			p := i0 + stride*j0
			d[idx] = s0*(t0*d0[p]+t1*d0[p+stride]) +
				s1*(t0*d0[p+1]+t1*d0[p+1+stride])
		}
	})
	SetBoundary(n, b, d)
}

// clampTrace limits a traced coordinate to [0.5, hi]. NaN, which min and
// max would pass through, maps to 0.5.
func clampTrace(v, hi float32) float32 {
	if !(v >= 0.5) {
		return 0.5
	}
	return min(v, hi)
}
