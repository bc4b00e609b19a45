package bandit

import "fmt"

// Greedy always exploits the arm with the best observed mean.
type Greedy struct{}

func (Greedy) Name() string {
	return "greedy"
}

func (Greedy) Choose(rng Rand, arms []*Arm) (int, error) {
	if len(arms) == 0 {
		return -1, fmt.Errorf("greedy: %w: no arms", ErrInvalidInput)
	}
	winner := pick(rng, argmaxes(means(arms)))
	arms[winner].RecordObservation()
	return winner, nil
}

// EpsilonGreedy explores a uniformly random arm with probability Epsilon and
// otherwise behaves like Greedy.
type EpsilonGreedy struct {
	Epsilon float64
}

func (g EpsilonGreedy) Name() string {
	return fmt.Sprintf("e-greedy-%.2f", g.Epsilon)
}

func (g EpsilonGreedy) Choose(rng Rand, arms []*Arm) (int, error) {
	if len(arms) == 0 {
		return -1, fmt.Errorf("%s: %w: no arms", g.Name(), ErrInvalidInput)
	}
	if g.Epsilon < 0 || g.Epsilon > 1 {
		return -1, fmt.Errorf("%s: %w: epsilon must be in [0, 1]", g.Name(), ErrInvalidInput)
	}

	var winner int
	if rng.Float64() < g.Epsilon {
		winner = rng.Intn(len(arms))
	} else {
		winner = pick(rng, argmaxes(means(arms)))
	}
	arms[winner].RecordObservation()
	return winner, nil
}

func means(arms []*Arm) []float64 {
	out := make([]float64, len(arms))
	for i, arm := range arms {
		out[i] = arm.Mean()
	}
	return out
}
