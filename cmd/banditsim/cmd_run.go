package main

import (
	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/banditsim/bandit"
	"github.com/CodeStranger-Fred/banditsim/report"
	"github.com/CodeStranger-Fred/banditsim/sim"
)

func newRunCmd(a *app) *cobra.Command {
	var f simFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a single traced run and print the final arms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.override(cmd, &f); err != nil {
				return err
			}
			return a.runOnce(cmd)
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) runOnce(cmd *cobra.Command) error {
	tb, err := sim.NewTestbed(a.cfg.Arms)
	if err != nil {
		return err
	}
	policy, err := a.cfg.NewPolicy()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tracer := report.NewTracer(out, a.color())
	runner := sim.NewRunner(a.logger, nil)
	stats, err := runner.Run(cmd.Context(), tb, policy, bandit.NewRand(a.cfg.Seed), a.cfg.Trials, tracer)
	if err != nil {
		return err
	}
	tracer.Done()

	stats.Seed = a.cfg.Seed
	report.PrintArms(out, stats, a.color())
	a.logger.Debug("run finished", "policy", policy.Name(), "seed", a.cfg.Seed, "regret", stats.Regret)
	return nil
}
