package smoke

import (
	"fmt"
	"strings"

	"stable-fluids/pkg/fluid"
)

// Policy selects how forces and dye are injected before each tick.
type Policy int

const (
	// PolicyPulse kicks the center cell along +x and +y whenever the flow
	// has come to rest.
	PolicyPulse Policy = iota
	// PolicyJet pushes +y from the bottom center on every tick.
	PolicyJet
	// PolicySwirl kicks the center cell in a random direction whenever the
	// flow has come to rest.
	PolicySwirl
)

const (
	idleSpeed2  = 5e-7
	idleDensity = 1
	impulseGain = 10
)

// Policies lists every forcing policy.
func Policies() []Policy { return []Policy{PolicyPulse, PolicyJet, PolicySwirl} }

func (p Policy) String() string {
	switch p {
	case PolicyPulse:
		return "pulse"
	case PolicyJet:
		return "jet"
	case PolicySwirl:
		return "swirl"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Policies() {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("smoke: unknown policy %q", s)
}

// emitter returns the cell forces and dye are injected into.
func (s *Sim) emitter() int {
	n := s.cfg.N
	c := max(n/2, 1)
	if s.policy == PolicyJet {
		return fluid.Index(c, 1, n)
	}
	return fluid.Index(c, c, n)
}

// react measures the current field, zeroes the source buffers and refills
// them according to the policy.
func (s *Sim) react() {
	st := s.state
	maxV2 := fluid.MaxSpeed2(st.VX.Curr(), st.VY.Curr())
	maxD := fluid.MaxValue(st.Density.Curr())
	st.ClearSources()

	at := s.emitter()
	force := s.cfg.Force * impulseGain
	switch s.policy {
	case PolicyJet:
		st.VY.Prev()[at] = force
	case PolicySwirl:
		if maxV2 < idleSpeed2 {
			dx, dy := s.rng.Direction()
			st.VX.Prev()[at] = force * dx
			st.VY.Prev()[at] = force * dy
		}
	default:
		if maxV2 < idleSpeed2 {
			st.VX.Prev()[at] = force
			st.VY.Prev()[at] = force
		}
	}
	if maxD < idleDensity {
		st.Density.Prev()[at] = s.cfg.Source * impulseGain
	}
}
