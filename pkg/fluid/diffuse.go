package fluid

// diffuse integrates x0 forward by dt with the given diffusion coefficient
// using backward Euler, which is stable for any dt. The result lands in x.
func (s *Solver) diffuse(b Boundary, x, x0 []float32, coeff, dt float32) {
	n := float32(s.n)
	a := dt * coeff * n * n
	s.relax(b, x, x0, a, 1+4*a)
}
