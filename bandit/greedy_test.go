package bandit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyExploitsBestMean(t *testing.T) {
	arms := []*Arm{{Observations: 10, Successes: 1}, {Observations: 10, Successes: 4}}

	i, err := Greedy{}.Choose(NewRand(1), arms)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 11, arms[1].Observations)
}

func TestEpsilonGreedyExplores(t *testing.T) {
	arms := []*Arm{{Observations: 10, Successes: 9}, {Observations: 10}}
	policy := EpsilonGreedy{Epsilon: 1}

	rng := NewRand(2)
	for i := 0; i < 200; i++ {
		_, err := policy.Choose(rng, arms)
		require.NoError(t, err)
	}
	assert.Greater(t, arms[1].Observations, 10)
}

func TestEpsilonGreedyRejectsBadEpsilon(t *testing.T) {
	_, err := EpsilonGreedy{Epsilon: 1.5}.Choose(NewRand(1), []*Arm{{}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Greedy{}.Choose(NewRand(1), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPolicyNames(t *testing.T) {
	assert.Equal(t, "thompson", Thompson{}.Name())
	assert.Equal(t, "greedy", Greedy{}.Name())
	assert.Equal(t, "e-greedy-0.10", EpsilonGreedy{Epsilon: 0.1}.Name())
}
