package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/CodeStranger-Fred/banditsim/sim"
)

// Plot renders, for every batch, the per-step rate at which a best arm was
// chosen and the average number of observations each arm received.
func Plot(w io.Writer, results ...sim.BatchResult) error {
	if len(results) == 0 {
		return errors.New("plot: no results")
	}

	page := components.NewPage()
	page.AddCharts(bestArmRate(results), observations(results))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// PlotFile writes Plot's output to path, creating parent directories.
func PlotFile(path string, results ...sim.BatchResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := Plot(f, results...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func bestArmRate(results []sim.BatchResult) *charts.Line {
	numSteps := len(results[0].BestArmRate)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "best arm selection rate",
			Subtitle: fmt.Sprintf("%d runs", len(results[0].Runs)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, 0, numSteps)
	for i := 0; i < numSteps; i++ {
		steps = append(steps, fmt.Sprintf("%d", i))
	}

	line = line.SetXAxis(steps)
	for _, res := range results {
		items := make([]opts.LineData, 0, numSteps)
		for i := 0; i < numSteps && i < len(res.BestArmRate); i++ {
			items = append(items, opts.LineData{Value: res.BestArmRate[i]})
		}
		line.AddSeries(res.Policy, items)
	}
	return line
}

func observations(results []sim.BatchResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "mean observations per arm",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	names := make([]string, 0, len(results[0].Arms))
	for _, a := range results[0].Arms {
		names = append(names, fmt.Sprintf("%s (%g)", a.Name, a.Hidden))
	}
	bar = bar.SetXAxis(names)
	for _, res := range results {
		items := make([]opts.BarData, 0, len(res.Arms))
		for _, a := range res.Arms {
			items = append(items, opts.BarData{Value: a.MeanObservations})
		}
		bar.AddSeries(res.Policy, items)
	}
	return bar
}

// Serve serves dir on addr until ctx is done.
func Serve(ctx context.Context, addr, dir string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.FileServer(http.Dir(dir)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving charts", "url", "http://"+addr, "dir", dir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve charts: %w", err)
	}
	return nil
}
