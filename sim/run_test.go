package sim

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/banditsim/bandit"
)

func newDefaultTestbed(t *testing.T) *Testbed {
	t.Helper()
	tb, err := NewTestbed(DefaultArms())
	require.NoError(t, err)
	return tb
}

func TestRunKeepsCountersConsistent(t *testing.T) {
	tb := newDefaultTestbed(t)
	r := NewRunner(nil, nil)

	var trials []Trial
	stats, err := r.Run(context.Background(), tb, bandit.Thompson{}, bandit.NewRand(1), 1000,
		ObserverFunc(func(tr Trial) {
			trials = append(trials, tr)
			for _, l := range tb.Levers {
				require.NoError(t, l.Arm.Check())
				require.GreaterOrEqual(t, l.Arm.Mean(), 0.0)
				require.LessOrEqual(t, l.Arm.Mean(), 1.0)
				require.Greater(t, l.Arm.StandardError(), 0.0)
			}
		}))
	require.NoError(t, err)

	assert.Len(t, trials, 1000)
	assert.Len(t, stats.Choices, 1000)
	total := 0
	for _, a := range stats.Arms {
		total += a.Observations
		assert.LessOrEqual(t, a.Successes, a.Observations)
	}
	assert.Equal(t, 1000, total)
	assert.InDelta(t, Regret(tb.Levers), stats.Regret, 1e-15)

	// an arm with zero hidden probability never succeeds
	assert.Zero(t, stats.Arms[2].Successes)
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() RunStats {
		stats, err := NewRunner(nil, nil).Run(context.Background(), newDefaultTestbed(t), bandit.Thompson{}, bandit.NewRand(2024), 1000, nil)
		require.NoError(t, err)
		return stats
	}
	assert.Equal(t, run(), run())
}

func TestRunRejectsNegativeTrials(t *testing.T) {
	_, err := NewRunner(nil, nil).Run(context.Background(), newDefaultTestbed(t), bandit.Thompson{}, bandit.NewRand(1), -1, nil)
	assert.ErrorIs(t, err, bandit.ErrInvalidInput)
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil).Run(ctx, newDefaultTestbed(t), bandit.Thompson{}, bandit.NewRand(1), 10, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRunner(nil, NewMetrics(reg))

	stats, err := r.Run(context.Background(), newDefaultTestbed(t), bandit.Thompson{}, bandit.NewRand(3), 300, nil)
	require.NoError(t, err)

	selected := 0.0
	for _, a := range stats.Arms {
		got := testutil.ToFloat64(r.Metrics.selections.WithLabelValues("thompson", a.Name))
		assert.Equal(t, float64(a.Observations), got)
		selected += got
	}
	assert.Equal(t, 300.0, selected)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.runs.WithLabelValues("thompson")))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.InDelta(t, 5.0, Mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.False(t, math.IsNaN(StdDev([]float64{1})))
}
