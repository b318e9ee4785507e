package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoreplay/cargoreplay/internal/presentation/formatter"
)

const testPlan = `{
  "startTime": "2025-01-02T00:00:00Z",
  "endTime": "2025-01-02T06:00:00Z",
  "events": [
    {"id": "e1", "kind": "DEPARTURE", "timestamp": "2025-01-02T01:00:00Z",
     "flightId": "F1", "orderId": "5", "originId": "10", "destinationId": "20", "quantity": 12},
    {"id": "e2", "kind": "ARRIVAL", "timestamp": "2025-01-02T05:00:00Z", "flightId": "F1"}
  ]
}`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestRootCommandTableOutput(t *testing.T) {
	out := execute(t, "--timeline", writePlan(t), "--output", "table")

	assert.Contains(t, out, "Replay summary")
	assert.Contains(t, out, "Timeline events:  2")
	assert.Contains(t, out, "Legs completed:   1")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Capacity events")
}

func TestRootCommandJSONOutput(t *testing.T) {
	out := execute(t, "--timeline", writePlan(t), "--output", "json")

	var report formatter.Report
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.EventCount)
	assert.Equal(t, 1, report.Snapshot.CompletedCount)
	assert.Len(t, report.CapacityEvents, 2)
}

func TestRootCommandCancelFlight(t *testing.T) {
	out := execute(t, "--timeline", writePlan(t), "--output", "table",
		"--cancel-flight", "F1", "--cancel-at", "2h")

	assert.Contains(t, out, "Legs completed:   0")
	assert.Contains(t, out, "cancelled")

	// Leave the shared flag clean for other tests.
	cancelFlight = ""
	cancelAt = "0s"
}

func TestRootCommandUnknownCancelFlight(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--timeline", writePlan(t), "--cancel-flight", "F99"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "F99")

	cancelFlight = ""
}

func TestRootCommandMissingTimeline(t *testing.T) {
	rootCmd.SetArgs([]string{"--timeline", "", "--config", "", "--output", "table"})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	assert.Error(t, rootCmd.Execute())
}

func TestConfigFileApplied(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("timeline: "+plan+"\nspeed: 7200\n"), 0o644))

	out := execute(t, "--timeline", "", "--config", cfgPath, "--output", "table")
	assert.Contains(t, out, "Replay summary")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x/y.log"), expandPath("~/x/y.log"))
	assert.Equal(t, "/var/log/app.log", expandPath("/var/log/app.log"))
}
