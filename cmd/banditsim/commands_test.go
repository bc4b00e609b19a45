package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--no-color", "--trials", "50", "--seed", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Len(t, lines[0], 50)
	assert.Contains(t, lines[1], "<Arm: ")
	assert.True(t, strings.HasPrefix(lines[4], "regret "))
}

func TestRunCommandIsReproducible(t *testing.T) {
	first, err := execute(t, "run", "--no-color", "--trials", "200", "--seed", "9")
	require.NoError(t, err)
	second, err := execute(t, "run", "--no-color", "--trials", "200", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunCommandRejectsBadPolicy(t *testing.T) {
	_, err := execute(t, "run", "--policy", "softmax")
	assert.ErrorContains(t, err, "unknown policy")
}

func TestBatchCommandWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	chart := filepath.Join(dir, "charts", "testbed.html")
	metrics := filepath.Join(dir, "metrics.prom")

	out, err := execute(t, "batch", "--no-color", "--compare",
		"--runs", "4", "--trials", "100", "--seed", "2",
		"--db", db, "--chart", chart, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "thompson ")
	assert.Contains(t, out, "greedy ")

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "best arm selection rate")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `banditsim_runs_total{policy="thompson"} 4`)

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "MEAN REGRET")
}

func TestBatchCommandUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banditsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
runs: 2
trials: 30
arms:
  - name: left
    hidden: 0.5
  - name: right
    hidden: 0.9
`), 0o600))

	out, err := execute(t, "batch", "--no-color", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "left")
	assert.Contains(t, out, "right")
	assert.Contains(t, out, "/2")
}

func TestHistoryNeedsDatabase(t *testing.T) {
	_, err := execute(t, "history")
	assert.ErrorContains(t, err, "no database")
}
