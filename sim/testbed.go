package sim

import (
	"fmt"

	"github.com/CodeStranger-Fred/banditsim/bandit"
)

// ArmSpec describes one arm of a testbed. Hidden is the true success
// probability; policies never see it.
type ArmSpec struct {
	Name   string  `yaml:"name" json:"name"`
	Hidden float64 `yaml:"hidden" json:"hidden"`
}

// DefaultArms is the classic three arm testbed.
func DefaultArms() []ArmSpec {
	return []ArmSpec{
		{Name: "a", Hidden: 0.02},
		{Name: "b", Hidden: 0.03},
		{Name: "c", Hidden: 0.00},
	}
}

// Lever binds an arm's counters to the ground truth the policy cannot see.
type Lever struct {
	Name   string
	Hidden float64
	Arm    *bandit.Arm
}

type Testbed struct {
	Levers []Lever
}

// NewTestbed builds fresh arms for specs.
func NewTestbed(specs []ArmSpec) (*Testbed, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("testbed: %w: no arms", bandit.ErrInvalidInput)
	}
	tb := &Testbed{Levers: make([]Lever, 0, len(specs))}
	for i, spec := range specs {
		if spec.Hidden < 0 || spec.Hidden > 1 {
			return nil, fmt.Errorf("testbed: %w: arm %d (%q) hidden probability %g outside [0, 1]",
				bandit.ErrInvalidInput, i, spec.Name, spec.Hidden)
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("a%d", i)
		}
		tb.Levers = append(tb.Levers, Lever{Name: name, Hidden: spec.Hidden, Arm: &bandit.Arm{}})
	}
	return tb, nil
}

// Arms returns the estimators in lever order.
func (tb *Testbed) Arms() []*bandit.Arm {
	arms := make([]*bandit.Arm, len(tb.Levers))
	for i := range tb.Levers {
		arms[i] = tb.Levers[i].Arm
	}
	return arms
}

// IsBest reports whether lever i has the highest hidden probability.
func (tb *Testbed) IsBest(i int) bool {
	for _, l := range tb.Levers {
		if l.Hidden > tb.Levers[i].Hidden {
			return false
		}
	}
	return true
}

// Regret sums hidden - mean over the levers.
func Regret(levers []Lever) float64 {
	regret := 0.0
	for _, l := range levers {
		regret += l.Hidden - l.Arm.Mean()
	}
	return regret
}
