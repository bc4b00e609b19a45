package report

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/CodeStranger-Fred/banditsim/sim"
)

// Tracer writes the name of every chosen arm as a run progresses,
// green when the trial succeeded.
type Tracer struct {
	w     io.Writer
	color aurora.Aurora
}

func NewTracer(w io.Writer, color bool) *Tracer {
	return &Tracer{w: w, color: aurora.NewAurora(color)}
}

func (t *Tracer) Observe(tr sim.Trial) {
	if tr.Success {
		fmt.Fprint(t.w, t.color.Green(tr.Name))
		return
	}
	fmt.Fprint(t.w, tr.Name)
}

// Done ends the trace line.
func (t *Tracer) Done() {
	fmt.Fprintln(t.w)
}

// PrintArms writes one line per arm in lever order, followed by the regret.
func PrintArms(w io.Writer, stats sim.RunStats, color bool) {
	au := aurora.NewAurora(color)
	for _, a := range stats.Arms {
		fmt.Fprintf(w, "%s <Arm: %d/%d %g,%g> hidden=%g\n",
			au.Bold(fmt.Sprintf("%-6s", a.Name)), a.Successes, a.Observations, a.Mean, a.StandardError, a.Hidden)
	}
	fmt.Fprintf(w, "regret %s\n", au.Blue(fmt.Sprintf("%.5f", stats.Regret)))
}

// PrintBatch writes the regret mean and standard deviation of res and how
// often each arm ended up the most observed.
func PrintBatch(w io.Writer, res sim.BatchResult, color bool) {
	au := aurora.NewAurora(color)
	fmt.Fprintf(w, "%s %g %g\n", au.Bold(res.Policy), res.MeanRegret, res.StdDevRegret)
	for _, a := range res.Arms {
		fmt.Fprintf(w, "  %-6s hidden=%-6g observations=%-8.1f successes=%-6.2f most-observed=%d/%d\n",
			a.Name, a.Hidden, a.MeanObservations, a.MeanSuccesses, a.MostObserved, len(res.Runs))
	}
}
