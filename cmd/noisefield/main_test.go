package main

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonitus/noisefield/field"
	"github.com/sonitus/noisefield/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(logging.NewDefaultLoggerTo(io.Discard, io.Discard))
	os.Exit(m.Run())
}

const sceneJSON = `{
  "name": "depot",
  "perimeter": [
    {"x": -5, "z": -5},
    {"x": 5, "z": -5},
    {"x": 5, "z": 5},
    {"x": -5, "z": 5}
  ],
  "levels": {"facade0": 78},
  "params": {"area_size": 30, "resolution": 16}
}`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(sceneJSON), 0644))
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "grid.json")
	html := filepath.Join(dir, "preview.html")
	png := filepath.Join(dir, "preview.png")

	require.NoError(t, run(writeScene(t), out, html, png, "crisp", 2))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var grid field.Grid
	require.NoError(t, json.Unmarshal(data, &grid))
	assert.Len(t, grid.X, 16)
	assert.Len(t, grid.Y, 16)
	assert.False(t, math.IsNaN(grid.Max))

	for _, path := range []string{html, png} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), path)
	}
}

func TestRunComputeOnly(t *testing.T) {
	require.NoError(t, run(writeScene(t), "", "", "", "", 0))
}

func TestRunSkipsPreviewsForEmptyGrid(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(scene, []byte(`{"perimeter": []}`), 0644))

	html := filepath.Join(dir, "preview.html")
	require.NoError(t, run(scene, "", html, "", "", 0))
	_, err := os.Stat(html)
	assert.True(t, os.IsNotExist(err))
}

func TestRunErrors(t *testing.T) {
	assert.Error(t, run("", "", "", "", "", 0), "missing config path")
	assert.Error(t, run(filepath.Join(t.TempDir(), "absent.json"), "", "", "", "", 0), "missing file")
	assert.Error(t, run(writeScene(t), "", "", "", "loud", 0), "unknown preset")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	assert.Error(t, run(bad, "", "", "", "", 0), "malformed config")
}
