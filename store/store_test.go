package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/banditsim/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "banditsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := sim.BatchResult{
		Policy:       "thompson",
		Config:       sim.BatchConfig{Runs: 100, Trials: 1000, Seed: 3},
		MeanRegret:   0.004,
		StdDevRegret: 0.012,
		Arms: []sim.ArmSummary{
			{Name: "a", Hidden: 0.02, MeanObservations: 240, MeanSuccesses: 4.5, MostObserved: 20},
			{Name: "b", Hidden: 0.03, MeanObservations: 430, MeanSuccesses: 12.9, MostObserved: 70},
		},
	}
	id, err := s.Save(ctx, FromResult(res))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "thompson", got.Policy)
	assert.Equal(t, 100, got.Runs)
	assert.Equal(t, int64(3), got.Seed)
	assert.InDelta(t, 0.012, got.StdDevRegret, 1e-12)
	require.Len(t, got.Arms, 2)
	assert.Equal(t, "b", got.Arms[1].Name)
	assert.Equal(t, 70, got.Arms[1].MostObserved)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, policy := range []string{"greedy", "thompson", "e-greedy-0.10"} {
		_, err := s.Save(ctx, Batch{Policy: policy, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e-greedy-0.10", all[0].Policy)
	assert.Equal(t, "greedy", all[2].Policy)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestGetUnknown(t *testing.T) {
	_, err := openTestStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
