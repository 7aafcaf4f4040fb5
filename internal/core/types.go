package core

import (
	"slices"
	"sync"
)

// Size describes the visible extent of a simulation in cells.
type Size struct {
	W int
	H int
}

// Sim is what the front-ends drive: a fixed-size field advanced one tick at
// a time and exposed as one intensity byte per visible cell.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// FlowField is implemented by sims that can report the velocity of a
// visible cell. The front-end uses it for the vector overlay.
type FlowField interface {
	Velocity(x, y int) (vx, vy float32)
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var (
	registryMu sync.RWMutex
	sims       = map[string]Factory{}
)

// Register adds a simulation factory under the provided name. Empty names
// and nil factories are ignored; a later registration replaces an earlier
// one.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	registryMu.Lock()
	sims[name] = f
	registryMu.Unlock()
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := sims[name]
	return f, ok
}

// Names lists the registered simulations in lexical order.
func Names() []string {
	registryMu.RLock()
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	registryMu.RUnlock()
	slices.Sort(names)
	return names
}

// Sims returns a copy of the registry.
func Sims() map[string]Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make(map[string]Factory, len(sims))
	for k, v := range sims {
		out[k] = v
	}
	return out
}
