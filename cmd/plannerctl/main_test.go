package main

import (
	"bytes"
	"encoding/json"
	"field-visit-planner/internal/api/dto"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedGenerateAndSuggest(t *testing.T) {
	t.Setenv("PLANNER_CONFIG", "")
	t.Setenv("PLANNER_DATABASE__PATH", filepath.Join(t.TempDir(), "ctl.db"))
	t.Setenv("PLANNER_LOG__LEVEL", "error")
	seed := filepath.Join("..", "..", "data", "seeds", "clients.json")

	out, err := execute(t, "db", "seed", "--file", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 clients")

	out, err = execute(t, "generate", "--start", "2026-10-19", "--days", "7", "--teams", "2")
	require.NoError(t, err)
	var sched dto.ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &sched))
	assert.Len(t, sched.Days, 7)
	assert.Equal(t, 2, sched.TeamCount)

	out, err = execute(t, "suggest", "--client", "c2", "--date", "2026-10-23", "--start", "2026-10-19", "--days", "7", "--teams", "2")
	require.NoError(t, err)
	var res dto.SuggestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.Options)
	assert.LessOrEqual(t, len(res.Options), 5)
}

func TestGeocodeRequiresKey(t *testing.T) {
	t.Setenv("PLANNER_CONFIG", "")
	t.Setenv("PLANNER_DATABASE__PATH", filepath.Join(t.TempDir(), "ctl.db"))
	t.Setenv("PLANNER_GEOCODING__API_KEY", "")

	_, err := execute(t, "geocode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
