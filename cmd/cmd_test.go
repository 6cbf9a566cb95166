package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zeusync/evade/internal/recording"
)

const overhead = "../internal/arena/testdata/overhead.yaml"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// execute runs a fresh command tree and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config that calibrates quickly and logs only errors.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evade.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: error
controller:
  calibration_frames: 4
workers: 2
`), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestSimulateThenVerify(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()

	out, err := execute(t, "--config", cfg, "simulate", "--record", dir, "--max-hits", "0", overhead)
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO")
	assert.Contains(t, out, "overhead")

	rec := filepath.Join(dir, "overhead.rec")
	in, err := os.Open(rec)
	require.NoError(t, err)
	frames, err := recording.ReadAll(in)
	require.NoError(t, in.Close())
	require.NoError(t, err)
	require.Len(t, frames, 60)

	out, err = execute(t, "--config", cfg, "verify", rec)
	require.NoError(t, err)
	assert.Contains(t, out, "RECORDING")
	assert.Contains(t, out, rec)
	assert.Contains(t, out, "%")
}

func TestSimulateHold(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "simulate", "--algorithm", "hold", "--max-hits", "0", overhead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded")

	_, err = execute(t, "--config", cfg, "simulate", "--algorithm", "planner", overhead)
	require.Error(t, err)
}

func TestField(t *testing.T) {
	cfg := writeConfig(t)
	out, err := execute(t, "--config", cfg, "field", "--frame", "25", "--cols", "40", "--rows", "20", overhead)
	require.NoError(t, err)
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "frame 25  hazards 1")
}

func TestCommandErrors(t *testing.T) {
	cfg := writeConfig(t)
	tests := []struct {
		name string
		args []string
	}{
		{"MissingConfig", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "simulate", overhead}},
		{"MissingScenario", []string{"--config", cfg, "simulate", "nope.yaml"}},
		{"MissingRecording", []string{"--config", cfg, "verify", "nope.rec"}},
		{"NoArgs", []string{"--config", cfg, "field"}},
		{"Unknown", []string{"launch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestRecordPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "stream.rec"), recordPath("out", "scenarios/stream.yaml"))
}
