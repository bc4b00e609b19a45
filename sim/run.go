package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeStranger-Fred/banditsim/bandit"
)

// Trial is one choice and its outcome.
type Trial struct {
	Step    int
	Arm     int
	Name    string
	Success bool
}

type Observer interface {
	Observe(Trial)
}

type ObserverFunc func(Trial)

func (f ObserverFunc) Observe(t Trial) { f(t) }

// ArmStats is the final state of one lever after a run.
type ArmStats struct {
	Name          string
	Hidden        float64
	Observations  int
	Successes     int
	Mean          float64
	StandardError float64
}

type RunStats struct {
	Seed     int64
	Choices  []int
	Outcomes []bool
	Hits     []bool // chosen arm was a best arm
	Arms     []ArmStats
	Regret   float64
}

// Runner drives policies against testbeds.
type Runner struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

func NewRunner(logger *slog.Logger, metrics *Metrics) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{Logger: logger, Metrics: metrics}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Run plays trials rounds of policy on tb. Every trial is one Choose, a
// Bernoulli draw against the chosen lever's hidden probability and, on
// success, RecordSuccess on that arm.
func (r *Runner) Run(ctx context.Context, tb *Testbed, policy bandit.Policy, rng bandit.Rand, trials int, observer Observer) (RunStats, error) {
	if trials < 0 {
		return RunStats{}, fmt.Errorf("run: %w: negative trial count %d", bandit.ErrInvalidInput, trials)
	}
	if err := ctx.Err(); err != nil {
		return RunStats{}, err
	}

	arms := tb.Arms()
	stats := RunStats{
		Choices:  make([]int, 0, trials),
		Outcomes: make([]bool, 0, trials),
		Hits:     make([]bool, 0, trials),
	}
	for t := 0; t < trials; t++ {
		i, err := policy.Choose(rng, arms)
		if err != nil {
			return RunStats{}, fmt.Errorf("trial %d: %w", t, err)
		}
		lever := tb.Levers[i]
		success := rng.Float64() < lever.Hidden
		if success {
			lever.Arm.RecordSuccess()
		}

		stats.Choices = append(stats.Choices, i)
		stats.Outcomes = append(stats.Outcomes, success)
		stats.Hits = append(stats.Hits, tb.IsBest(i))
		r.Metrics.observeTrial(policy.Name(), lever.Name, success)
		if observer != nil {
			observer.Observe(Trial{Step: t, Arm: i, Name: lever.Name, Success: success})
		}
	}

	for _, l := range tb.Levers {
		if err := l.Arm.Check(); err != nil {
			return RunStats{}, fmt.Errorf("arm %s: %w", l.Name, err)
		}
		stats.Arms = append(stats.Arms, ArmStats{
			Name:          l.Name,
			Hidden:        l.Hidden,
			Observations:  l.Arm.Observations,
			Successes:     l.Arm.Successes,
			Mean:          l.Arm.Mean(),
			StandardError: l.Arm.StandardError(),
		})
	}
	stats.Regret = Regret(tb.Levers)
	r.Metrics.observeRun(policy.Name(), stats.Regret)
	return stats, nil
}
