package bandit

import "fmt"

// Thompson is approximate Thompson sampling: every arm draws once from a
// Normal approximation of its posterior and the highest draw wins.
type Thompson struct{}

func (Thompson) Name() string {
	return "thompson"
}

func (Thompson) Choose(rng Rand, arms []*Arm) (int, error) {
	return Choose(rng, arms)
}

// Choose samples every arm, picks uniformly among the arms sharing the maximum
// draw and records an observation on the winner only. It returns the winner's index.
func Choose[E Estimator](rng Rand, arms []E) (int, error) {
	if len(arms) == 0 {
		return -1, fmt.Errorf("choose: %w: no arms", ErrInvalidInput)
	}

	draws := make([]float64, len(arms))
	for i, arm := range arms {
		draws[i] = arm.Sample(rng)
	}

	winner := pick(rng, argmaxes(draws))
	arms[winner].RecordObservation()
	return winner, nil
}
