package fluid

// SourceInjector performs the source-injection sub-step, x[k] += dt*s[k]
// over the whole padded buffer. Implementations may offload the work to
// another device; the solver falls back to the CPU path when one fails.
type SourceInjector interface {
	AddSource(x, s []float32, dt float32) error
	Name() string
}

// CPUInjector is the in-process source injector.
type CPUInjector struct {
	// Workers splits the buffer into bands processed concurrently.
	Workers int
}

// AddSource adds dt*s to x element-wise. It never fails.
func (c CPUInjector) AddSource(x, s []float32, dt float32) error {
	addSource(x, s, dt, c.Workers)
	return nil
}

// Name identifies the backend in logs.
func (c CPUInjector) Name() string { return "cpu" }

func addSource(x, s []float32, dt float32, workers int) {
	const band = 4096
	if workers <= 1 || len(x) < 2*band {
		for k := range x {
			x[k] += dt * s[k]
		}
		return
	}
	forRows(0, (len(x)+band-1)/band, workers, func(b int) {
		lo := b * band
		hi := min(lo+band, len(x))
		for k := lo; k < hi; k++ {
			x[k] += dt * s[k]
		}
	})
}

func (s *Solver) addSource(x, src []float32, dt float32) {
	if s.sources != nil {
		err := s.sources.AddSource(x, src, dt)
		if err == nil {
			return
		}
		Logger().Warn("source injector failed, falling back to cpu",
			"backend", s.sources.Name(), "err", err)
		s.sources = nil
	}
	addSource(x, src, dt, s.workers)
}
