package kpi

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSnapshotComputesThroughputAndUtilization(t *testing.T) {
	snap := BuildSnapshot(360, 1800, 3600, 40, 0.978, 2, map[string]int{"x": 1})
	require.Equal(t, 360.0, snap.ThroughputPerHour)
	require.Equal(t, 50.0, snap.UtilizationPercent)
}

func TestBuildSnapshotZeroSimSecondsDoesNotDivideByZero(t *testing.T) {
	snap := BuildSnapshot(0, 0, 0, 0, 1.0, 0, nil)
	require.Zero(t, snap.ThroughputPerHour)
	require.Zero(t, snap.UtilizationPercent)
}

func TestWriteSnapshotWritesParseableJSONToNamedFile(t *testing.T) {
	dir := t.TempDir()
	snap := BuildSnapshot(10, 100, 600, 5, 0.95, 1, map[string]string{"k": "v"})

	path, err := WriteSnapshot(dir, "S6", snap)
	require.NoError(t, err)
	require.Equal(t, "S6_kpis_600.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, uint32(1), got.CatastrophicFailures)
}
