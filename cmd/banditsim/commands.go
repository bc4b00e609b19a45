package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/banditsim/config"
)

// app is the state shared by every command once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "banditsim",
		Short: "Simulate multi-armed bandit policies on Bernoulli arms",
		Long: `banditsim plays approximate Thompson sampling (and a few baseline
policies) against arms with hidden success probabilities and reports
how much regret each policy accumulates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(newRunCmd(a), newBatchCmd(a), newHistoryCmd(a))
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.noColor {
		cfg.Output.Color = false
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger()
	return nil
}

// override copies the flags the user actually set onto the loaded config.
func (a *app) override(cmd *cobra.Command, f *simFlags) error {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		a.cfg.Trials = f.trials
	}
	if flags.Changed("runs") {
		a.cfg.Runs = f.runs
	}
	if flags.Changed("seed") {
		a.cfg.Seed = f.seed
	}
	if flags.Changed("workers") {
		a.cfg.Workers = f.workers
	}
	if flags.Changed("policy") {
		a.cfg.Policy = f.policy
	}
	if flags.Changed("epsilon") {
		a.cfg.Epsilon = f.epsilon
	}
	return a.cfg.Validate()
}

// simFlags are the simulation settings that can be overridden per command.
type simFlags struct {
	trials  int
	runs    int
	seed    int64
	workers int
	policy  string
	epsilon float64
}

func (f *simFlags) register(cmd *cobra.Command, withBatch bool) {
	cmd.Flags().IntVar(&f.trials, "trials", 0, "trials per run")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&f.policy, "policy", "", "policy: thompson, greedy or epsilon-greedy")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", 0, "exploration rate for epsilon-greedy")
	if withBatch {
		cmd.Flags().IntVar(&f.runs, "runs", 0, "number of independent runs")
		cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent runs (0 uses all CPUs)")
	}
}

func (a *app) color() bool {
	return a.cfg.Output.Color
}
