package fluid

// project removes the divergent part of (vx, vy) in place. p and div are
// scratch buffers; on return p holds the pressure and div the divergence
// that was removed. All four buffers must be distinct.
func (s *Solver) project(vx, vy, p, div []float32) {
	n := s.n
	stride := n + 2
	h := float32(n)
	forRows(1, n+1, s.workers, func(j int) {
		row := stride * j
		for i := 1; i <= n; i++ {
			idx := row + i
			div[idx] = -0.5 * ((vx[idx+1] - vx[idx-1]) + (vy[idx+stride] - vy[idx-stride])) / h
			p[idx] = 0
		}
	})
	SetBoundary(n, BoundaryNone, div)
	SetBoundary(n, BoundaryNone, p)

	s.relax(BoundaryNone, p, div, 1, 4)

	forRows(1, n+1, s.workers, func(j int) {
		row := stride * j
		for i := 1; i <= n; i++ {
			idx := row + i
			vx[idx] -= 0.5 * h * (p[idx+1] - p[idx-1])
			vy[idx] -= 0.5 * h * (p[idx+stride] - p[idx-stride])
		}
	})
	SetBoundary(n, BoundaryMirrorX, vx)
	SetBoundary(n, BoundaryMirrorY, vy)
}
