package bandit

// Policy picks one arm per trial and records the observation on it.
type Policy interface {
	Name() string

	Choose(rng Rand, arms []*Arm) (int, error)
}

// Estimator is what Choose needs from an arm.
type Estimator interface {
	Sample(rng Rand) float64
	RecordObservation()
}

// argmaxes returns the indexes of every value equal to the maximum.
func argmaxes(values []float64) []int {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	var winners []int
	for i, v := range values {
		if v == best {
			winners = append(winners, i)
		}
	}
	return winners
}

// pick returns one of the candidates uniformly at random.
func pick(rng Rand, candidates []int) int {
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}
