package fluid

// Pair holds the two buffers of one field: the current value and its
// previous/scratch partner. Swap exchanges their roles without copying;
// the underlying memory never moves between buffers.
type Pair struct {
	bufs [2][]float32
	cur  int
}

// NewPair allocates two zeroed buffers for an n×n interior.
func NewPair(n int) Pair {
	return Pair{bufs: [2][]float32{NewField(n), NewField(n)}}
}

// PairOf wraps caller-owned buffers, cur in the current role.
func PairOf(cur, prev []float32) Pair {
	return Pair{bufs: [2][]float32{cur, prev}}
}

// Curr returns the buffer playing the current role.
func (p *Pair) Curr() []float32 { return p.bufs[p.cur] }

// Prev returns the buffer playing the previous/scratch role.
func (p *Pair) Prev() []float32 { return p.bufs[1-p.cur] }

// Swap exchanges the roles of the two buffers.
func (p *Pair) Swap() { p.cur = 1 - p.cur }

// Flipped reports whether the buffer passed first to PairOf (or allocated
// first by NewPair) currently plays the previous role.
func (p *Pair) Flipped() bool { return p.cur == 1 }

// Clear zeroes both buffers.
func (p *Pair) Clear() {
	clear(p.bufs[0])
	clear(p.bufs[1])
}
