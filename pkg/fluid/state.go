package fluid

// Params are the physical parameters of one tick.
type Params struct {
	DT   float32 // timestep
	Diff float32 // density diffusion coefficient
	Visc float32 // kinematic viscosity
}

// Validate rejects negative, infinite or NaN parameters.
func (p Params) Validate() error {
	if err := checkParam("dt", p.DT); err != nil {
		return err
	}
	if err := checkParam("diff", p.Diff); err != nil {
		return err
	}
	return checkParam("visc", p.Visc)
}

// ValidateFor runs Validate and additionally rejects parameters that
// overflow the solver coefficients on an n×n interior.
func (p Params) ValidateFor(n int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return checkScaled(n, p)
}

// State is the full simulation state: velocity components and density,
// each with its previous/source partner. Callers write forces and dye into
// the Prev buffers before a tick and read the Curr buffers after it.
type State struct {
	N       int
	VX, VY  Pair
	Density Pair
}

// NewState allocates zeroed buffers for an n×n interior.
func NewState(n int) *State {
	return &State{
		N:       n,
		VX:      NewPair(n),
		VY:      NewPair(n),
		Density: NewPair(n),
	}
}

// Reset zeroes every buffer.
func (st *State) Reset() {
	st.VX.Clear()
	st.VY.Clear()
	st.Density.Clear()
}

// ClearSources zeroes the three previous buffers.
func (st *State) ClearSources() {
	clear(st.VX.Prev())
	clear(st.VY.Prev())
	clear(st.Density.Prev())
}

// Validate checks the grid size, buffer lengths and that all six buffers
// are distinct.
func (st *State) Validate() error {
	if err := checkGrid(st.N); err != nil {
		return err
	}
	return checkBuffers(st.N,
		[]string{"vx", "vxPrev", "vy", "vyPrev", "density", "densityPrev"},
		st.VX.Curr(), st.VX.Prev(), st.VY.Curr(), st.VY.Prev(),
		st.Density.Curr(), st.Density.Prev())
}
