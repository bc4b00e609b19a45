package main

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/banditsim/bandit"
	"github.com/CodeStranger-Fred/banditsim/report"
	"github.com/CodeStranger-Fred/banditsim/sim"
	"github.com/CodeStranger-Fred/banditsim/store"
)

type batchFlags struct {
	simFlags
	compare     bool
	chart       string
	serve       string
	database    string
	metricsFile string
}

func newBatchCmd(a *app) *cobra.Command {
	var f batchFlags
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Repeat independent runs and report regret mean and standard deviation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.override(cmd, &f.simFlags); err != nil {
				return err
			}
			out := a.cfg.Output
			if cmd.Flags().Changed("chart") {
				out.Chart = f.chart
			}
			if cmd.Flags().Changed("db") {
				out.Database = f.database
			}
			if cmd.Flags().Changed("metrics-file") {
				out.MetricsFile = f.metricsFile
			}
			a.cfg.Output = out
			return a.batch(cmd, f.compare, f.serve)
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&f.compare, "compare", false, "run every policy on the same seeds")
	cmd.Flags().StringVar(&f.chart, "chart", "", "write an HTML chart to this file")
	cmd.Flags().StringVar(&f.serve, "serve", "", "serve the chart directory on this address (e.g. localhost:8089)")
	cmd.Flags().StringVar(&f.database, "db", "", "store the batch summary in this SQLite database")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	return cmd
}

func (a *app) batch(cmd *cobra.Command, compare bool, serve string) error {
	ctx := cmd.Context()
	reg := prometheus.NewRegistry()
	runner := sim.NewRunner(a.logger, sim.NewMetrics(reg))

	var results []sim.BatchResult
	if compare {
		var err error
		results, err = runner.Compare(ctx, a.cfg.Arms, a.cfg.AllPolicies(), a.cfg.Batch())
		if err != nil {
			return err
		}
	} else {
		policy, err := a.cfg.NewPolicy()
		if err != nil {
			return err
		}
		res, err := runner.RunRepeatedly(ctx, a.cfg.Arms, func() bandit.Policy { return policy }, a.cfg.Batch())
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	w := cmd.OutOrStdout()
	for _, res := range results {
		report.PrintBatch(w, res, a.color())
	}

	output := a.cfg.Output
	if output.Database != "" {
		if err := a.save(cmd, output.Database, results); err != nil {
			return err
		}
	}
	if output.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(output.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		a.logger.Info("metrics written", "path", output.MetricsFile)
	}
	if output.Chart != "" {
		if err := report.PlotFile(output.Chart, results...); err != nil {
			return err
		}
		a.logger.Info("chart written", "path", output.Chart)
		if serve != "" {
			return report.Serve(ctx, serve, filepath.Dir(output.Chart), a.logger)
		}
	}
	return nil
}

func (a *app) save(cmd *cobra.Command, path string, results []sim.BatchResult) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, res := range results {
		id, err := s.Save(cmd.Context(), store.FromResult(res))
		if err != nil {
			return fmt.Errorf("save %s batch: %w", res.Policy, err)
		}
		a.logger.Info("batch stored", "id", id, "policy", res.Policy, "db", path)
	}
	return nil
}
