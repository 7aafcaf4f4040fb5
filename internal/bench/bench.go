// Package bench aggregates per-tick phase timings of a smoke sim into
// nanoseconds-per-cell reports.
package bench

import (
	"fmt"
	"io"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"stable-fluids/internal/sims/smoke"
)

// Phase indexes the timed parts of a tick.
type Phase int

const (
	PhaseReact Phase = iota
	PhaseVelocity
	PhaseDensity
	numPhases
)

var phaseNames = [numPhases]string{"react", "velocity", "density"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Window is one closed aggregation window.
type Window struct {
	Ticks     int
	Elapsed   time.Duration
	NsPerCell [numPhases]float64
}

// Total is the summed ns per cell of all phases.
func (w Window) Total() float64 { return floats.Sum(w.NsPerCell[:]) }

// Recorder accumulates tick timings and closes a window whenever the
// configured interval has elapsed.
type Recorder struct {
	cells    float64
	interval time.Duration
	now      func() time.Time

	start time.Time
	ticks int
	sums  [numPhases]time.Duration

	windows []Window
}

// NewRecorder returns a recorder for an n×n interior. A non-positive
// interval selects one second.
func NewRecorder(n int, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = time.Second
	}
	r := &Recorder{cells: float64(n) * float64(n), interval: interval, now: time.Now}
	r.start = r.now()
	return r
}

// Add records one tick. When the tick closes a window, the window is
// returned with ok set.
func (r *Recorder) Add(t smoke.Timings) (w Window, ok bool) {
	r.sums[PhaseReact] += t.React
	r.sums[PhaseVelocity] += t.Velocity
	r.sums[PhaseDensity] += t.Density
	r.ticks++
	if r.now().Sub(r.start) < r.interval {
		return Window{}, false
	}
	return r.close(), true
}

// Flush closes the current window if it holds any ticks.
func (r *Recorder) Flush() (Window, bool) {
	if r.ticks == 0 {
		return Window{}, false
	}
	return r.close(), true
}

func (r *Recorder) close() Window {
	now := r.now()
	w := Window{Ticks: r.ticks, Elapsed: now.Sub(r.start)}
	per := float64(r.ticks) * r.cells
	for p := range r.sums {
		w.NsPerCell[p] = float64(r.sums[p].Nanoseconds()) / per
	}
	r.windows = append(r.windows, w)
	r.start = now
	r.ticks = 0
	r.sums = [numPhases]time.Duration{}
	return w
}

// Windows returns the closed windows in order.
func (r *Recorder) Windows() []Window { return r.windows }

// PhaseStats is the spread of one phase across windows.
type PhaseStats struct {
	Mean   float64
	StdDev float64
}

// Summary describes all closed windows.
type Summary struct {
	Windows int
	Ticks   int
	Phases  [numPhases]PhaseStats
	Total   PhaseStats
}

// Summary computes mean and sample standard deviation of ns per cell
// across the closed windows, weighting each window by its tick count.
func (r *Recorder) Summary() Summary {
	s := Summary{Windows: len(r.windows)}
	if len(r.windows) == 0 {
		return s
	}
	weights := make([]float64, len(r.windows))
	xs := make([]float64, len(r.windows))
	for k, w := range r.windows {
		weights[k] = float64(w.Ticks)
		s.Ticks += w.Ticks
	}
	for p := Phase(0); p < numPhases; p++ {
		for k, w := range r.windows {
			xs[k] = w.NsPerCell[p]
		}
		s.Phases[p] = meanStd(xs, weights)
	}
	for k, w := range r.windows {
		xs[k] = w.Total()
	}
	s.Total = meanStd(xs, weights)
	return s
}

func meanStd(xs, weights []float64) PhaseStats {
	if len(xs) < 2 {
		return PhaseStats{Mean: stat.Mean(xs, weights)}
	}
	m, sd := stat.MeanStdDev(xs, weights)
	return PhaseStats{Mean: m, StdDev: sd}
}

// WriteWindow prints a window in the headless report format.
func WriteWindow(out io.Writer, w Window) error {
	_, err := fmt.Fprintf(out, "Total Avg: %.3fns\nReact Avg: %.3fns\nVelocity Avg: %.3fns\nDensity Avg: %.3fns\nticks: %d\n",
		w.Total(), w.NsPerCell[PhaseReact], w.NsPerCell[PhaseVelocity], w.NsPerCell[PhaseDensity], w.Ticks)
	return err
}

// WriteSummary prints the cross-window statistics.
func WriteSummary(out io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(out, "windows: %d ticks: %d\n", s.Windows, s.Ticks); err != nil {
		return err
	}
	for p := Phase(0); p < numPhases; p++ {
		ps := s.Phases[p]
		if _, err := fmt.Fprintf(out, "%-8s %10.3f ± %.3f ns/cell\n", p, ps.Mean, ps.StdDev); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%-8s %10.3f ± %.3f ns/cell\n", "total", s.Total.Mean, s.Total.StdDev)
	return err
}
