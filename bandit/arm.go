package bandit

import (
	"fmt"
	"math"
)

// Arm keeps the running counters for one choice. The zero value is a fresh arm.
type Arm struct {
	Observations int
	Successes    int
}

func (a *Arm) RecordObservation() { a.Observations++ }

func (a *Arm) RecordSuccess() { a.Successes++ }

// Mean is the observed success rate, 0 for an arm that was never chosen.
func (a *Arm) Mean() float64 {
	return float64(a.Successes) / float64(max(a.Observations, 1))
}

// StandardError estimates the uncertainty of Mean from the aggregate counts.
// A zero sample deviation is replaced by 1 so the arm always keeps some spread.
func (a *Arm) StandardError() float64 {
	mean := a.Mean()
	failures := a.Observations - a.Successes
	sumSq := float64(a.Successes)*(1-mean)*(1-mean) + float64(failures)*(0-mean)*(0-mean)

	dev := math.Sqrt(sumSq / float64(nonZero(a.Observations-1)))
	if dev == 0 {
		dev = 1
	}
	return dev / math.Sqrt(float64(nonZero(a.Observations)))
}

// Sample draws from N(Mean, StandardError). The value is not clipped to [0, 1].
func (a *Arm) Sample(rng Rand) float64 {
	return a.Mean() + a.StandardError()*rng.NormFloat64()
}

// Check reports whether the counters are consistent.
func (a *Arm) Check() error {
	if a.Observations < 0 || a.Successes < 0 {
		return fmt.Errorf("%w: negative counter in %v", ErrInvariantViolation, a)
	}
	if a.Successes > a.Observations {
		return fmt.Errorf("%w: %d successes exceed %d observations", ErrInvariantViolation, a.Successes, a.Observations)
	}
	return nil
}

func (a *Arm) String() string {
	return fmt.Sprintf("<Arm: %d/%d %g,%g>", a.Successes, a.Observations, a.Mean(), a.StandardError())
}

func nonZero(n int) int {
	if n == 0 {
		return 1
	}
	return n
}
