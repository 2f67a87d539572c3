package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/dto"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SOLVESYNC_STORAGE_DRIVER", "sqlite")
	t.Setenv("SOLVESYNC_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("SOLVESYNC_APP_ENV", "test")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInspectPendingOnEmptyStore(t *testing.T) {
	out, err := runCLI(t, "inspect", "pending")
	require.NoError(t, err)

	var pending dto.PendingListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &pending))
	require.Zero(t, pending.Total)
}

func TestInspectStatsOnEmptyStore(t *testing.T) {
	out, err := runCLI(t, "inspect", "stats")
	require.NoError(t, err)

	var stats dto.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Zero(t, stats.Streak)
	require.NotNil(t, stats.RecentSolves)
}

func TestPushWithoutConfigFails(t *testing.T) {
	_, err := runCLI(t, "push", "--dry-run")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	require.Subset(t, names, []string{"serve", "push", "inspect"})
}
