package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/gacha-odds/internal/odds"
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

func TestDiceTable(t *testing.T) {
	out, err := execute(t, "dice", "1d4")
	require.NoError(t, err)
	assert.Contains(t, out, "roll: 1d4")
	assert.Contains(t, out, "mean: 2.500000")
	assert.Contains(t, out, "OUTCOME")
	assert.Regexp(t, `4\s+0\.250000\s+1\.000000`, out)
}

func TestDiceJSON(t *testing.T) {
	out, err := execute(t, "dice", "1d6", "--given", "x <= 4", "--format", "json")
	require.NoError(t, err)

	var rep odds.DiceReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.InDelta(t, 2.5, rep.Expectation, 1e-12)
	assert.Len(t, rep.PMF, 4)
}

func TestDiceErrors(t *testing.T) {
	_, err := execute(t, "dice")
	require.Error(t, err)

	_, err = execute(t, "dice", "2x6")
	require.Error(t, err)

	_, err = execute(t, "dice", "1d6", "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestPull(t *testing.T) {
	dir := t.TempDir()
	games := filepath.Join(dir, "games")
	require.NoError(t, os.MkdirAll(filepath.Join(games, "coin", "pools"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(games, "coin.yaml"),
		[]byte("version: \"2\"\ndraw:\n  p_base: 0.5\n  pity: 3\ntokens:\n  name: gem\n  per_draw: 10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(games, "coin", "pools", "up.yaml"),
		[]byte("banner:\n  off_probs: [0.5]\n  max_off: 1\n"), 0o644))

	out, err := execute(t, "pull", "--config", dir, "--game", "coin", "--goal", "first_hit")
	require.NoError(t, err)
	assert.Contains(t, out, "game: coin (version 2)")
	assert.Contains(t, out, "mean: 1.7500")
	assert.Contains(t, out, "expected gem: 17.50")

	out, err = execute(t, "pull", "--config", dir, "--game", "coin", "--pool", "up", "--format", "json")
	require.NoError(t, err)
	var rep odds.PullReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.InDelta(t, 2.625, rep.Stats.Mean, 1e-12)

	out, err = execute(t, "pull", "--config", dir, "--game", "coin", "--goal", "first_hit", "--cushion", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "mean: 1.0000")

	_, err = execute(t, "pull", "--config", dir)
	require.Error(t, err)

	_, err = execute(t, "pull", "--config", dir, "--game", "coin", "--goal", "fixed_budget", "--draws", "40", "--max-states", "2")
	require.ErrorContains(t, err, "pull coin")
}
