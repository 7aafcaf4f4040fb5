package fluid

// Option configures a Solver during construction.
type Option func(*Solver)

// WithIterations sets the number of relaxation sweeps used by diffusion
// and projection. It trades accuracy for speed.
func WithIterations(k int) Option {
	return func(s *Solver) { s.iterations = k }
}

// WithOrdering selects the relaxation sweep order.
func WithOrdering(o Ordering) Option {
	return func(s *Solver) { s.ordering = o }
}

// WithWorkers runs the per-cell passes (source injection, advection,
// divergence, gradient and red-black sweeps) on k goroutines. Values below
// 2 keep everything on the calling goroutine.
func WithWorkers(k int) Option {
	return func(s *Solver) { s.workers = k }
}

// WithSourceInjector routes source injection through si, for example a GPU
// backend. nil selects the CPU path.
func WithSourceInjector(si SourceInjector) Option {
	return func(s *Solver) { s.sources = si }
}
