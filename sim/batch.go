package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/CodeStranger-Fred/banditsim/bandit"
)

type BatchConfig struct {
	Runs    int
	Trials  int
	Seed    int64
	Workers int
}

// ArmSummary averages one arm across the runs of a batch.
type ArmSummary struct {
	Name             string
	Hidden           float64
	MeanObservations float64
	MeanSuccesses    float64
	MostObserved     int // runs in which this arm was observed strictly more than any other
}

type BatchResult struct {
	Policy       string
	Config       BatchConfig
	Runs         []RunStats
	Regrets      []float64
	MeanRegret   float64
	StdDevRegret float64
	BestArmRate  []float64 // per step, fraction of runs that chose a best arm
	Arms         []ArmSummary
}

// RunRepeatedly plays cfg.Runs independent runs on fresh testbeds, run i seeded
// with cfg.Seed+i. Runs execute concurrently but results are kept in run order,
// so the outcome depends only on the seed.
func (r *Runner) RunRepeatedly(ctx context.Context, specs []ArmSpec, newPolicy func() bandit.Policy, cfg BatchConfig) (BatchResult, error) {
	if cfg.Runs <= 0 {
		return BatchResult{}, fmt.Errorf("batch: %w: runs must be positive", bandit.ErrInvalidInput)
	}
	if _, err := NewTestbed(specs); err != nil {
		return BatchResult{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// one instance only for labelling
	name := newPolicy().Name()
	log := r.logger().With("policy", name)

	runs := make([]RunStats, cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Runs {
		g.Go(func() error {
			seed := cfg.Seed + int64(i)
			tb, err := NewTestbed(specs)
			if err != nil {
				return err
			}
			stats, err := r.Run(gctx, tb, newPolicy(), bandit.NewRand(seed), cfg.Trials, nil)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			stats.Seed = seed
			runs[i] = stats
			log.Debug("run finished", "seed", seed, "regret", stats.Regret)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	res := summarize(name, cfg, specs, runs)
	log.Info("batch finished",
		"runs", cfg.Runs,
		"trials", cfg.Trials,
		"mean_regret", res.MeanRegret,
		"stddev_regret", res.StdDevRegret,
	)
	return res, nil
}

// Compare runs the same batch for every policy. All policies see the same seeds.
func (r *Runner) Compare(ctx context.Context, specs []ArmSpec, policies []func() bandit.Policy, cfg BatchConfig) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(policies))
	for _, newPolicy := range policies {
		res, err := r.RunRepeatedly(ctx, specs, newPolicy, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func summarize(name string, cfg BatchConfig, specs []ArmSpec, runs []RunStats) BatchResult {
	res := BatchResult{
		Policy:      name,
		Config:      cfg,
		Runs:        runs,
		Regrets:     make([]float64, len(runs)),
		BestArmRate: make([]float64, cfg.Trials),
		Arms:        make([]ArmSummary, len(specs)),
	}
	for i, run := range runs {
		res.Regrets[i] = run.Regret
		for t, hit := range run.Hits {
			if hit {
				res.BestArmRate[t]++
			}
		}
		if top := mostObserved(run.Arms); top >= 0 {
			res.Arms[top].MostObserved++
		}
		for j, arm := range run.Arms {
			res.Arms[j].MeanObservations += float64(arm.Observations)
			res.Arms[j].MeanSuccesses += float64(arm.Successes)
		}
	}

	n := float64(len(runs))
	for t := range res.BestArmRate {
		res.BestArmRate[t] /= n
	}
	for j := range res.Arms {
		res.Arms[j].Name = runs[0].Arms[j].Name
		res.Arms[j].Hidden = specs[j].Hidden
		res.Arms[j].MeanObservations /= n
		res.Arms[j].MeanSuccesses /= n
	}
	res.MeanRegret = Mean(res.Regrets)
	res.StdDevRegret = StdDev(res.Regrets)
	return res
}

// mostObserved returns the index of the arm with strictly the most
// observations, or -1 when the top is shared.
func mostObserved(arms []ArmStats) int {
	top, count := -1, -1
	shared := false
	for i, a := range arms {
		switch {
		case a.Observations > count:
			top, count, shared = i, a.Observations, false
		case a.Observations == count:
			shared = true
		}
	}
	if shared {
		return -1
	}
	return top
}
