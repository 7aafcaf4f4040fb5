//go:build !opencl

package opencl

// Injector is unavailable without the opencl build tag.
type Injector struct{}

// New reports ErrUnavailable.
func New(int) (*Injector, error) { return nil, ErrUnavailable }

func (*Injector) AddSource([]float32, []float32, float32) error { return ErrUnavailable }

func (*Injector) Name() string { return "opencl" }

func (*Injector) Close() {}
