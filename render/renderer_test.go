package render

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/manimatic/manimatic/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("render stubs are POSIX shell scripts")
	}
	path := filepath.Join(t.TempDir(), "manim-stub.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func newTestRenderer(t *testing.T, bin string, timeout time.Duration) (*Renderer, string) {
	t.Helper()
	mediaDir := filepath.Join(t.TempDir(), "media")
	r := NewRenderer(bin, "-ql", "src/generated_animations.py", mediaDir, timeout, fs.NewOsFileSystem())
	return r, mediaDir
}

func TestRenderMissingTool(t *testing.T) {
	r, _ := newTestRenderer(t, "manim-binary-that-does-not-exist", time.Second)

	res := r.Render("GeneratedScene_20240102_150405")
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "pip install manim")
	assert.Empty(t, res.VideoPath)
}

func TestRenderNonZeroExit(t *testing.T) {
	stub := writeStub(t, "echo rendering >&1\necho boom >&2\nexit 3")
	r, _ := newTestRenderer(t, stub, 5*time.Second)

	res := r.Render("GeneratedScene_20240102_150405")
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "rendering failed")
	assert.Contains(t, res.Err, "boom")
	assert.Contains(t, res.Log, "rendering")
}

func TestRenderTimeout(t *testing.T) {
	stub := writeStub(t, "sleep 5")
	r, _ := newTestRenderer(t, stub, 100*time.Millisecond)

	res := r.Render("GeneratedScene_20240102_150405")
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "timed out")
	assert.Empty(t, res.VideoPath)
	assert.Empty(t, res.Log)
}

func TestRenderSuccessCandidatePath(t *testing.T) {
	className := "GeneratedScene_20240102_150405"
	mediaDir := filepath.Join(t.TempDir(), "media")
	expected := filepath.Join(mediaDir, "480p15", className+".mp4")
	stub := writeStub(t, "mkdir -p "+filepath.Dir(expected)+"\necho video > "+expected)

	r := NewRenderer(stub, "-ql", "src/generated_animations.py", mediaDir, 5*time.Second, fs.NewOsFileSystem())
	res := r.Render(className)
	require.True(t, res.Success, "render failed: %s", res.Err)
	assert.Equal(t, expected, res.VideoPath)
}

func TestRenderSuccessFallbackScan(t *testing.T) {
	className := "GeneratedScene_20240102_150405"
	mediaDir := filepath.Join(t.TempDir(), "media")
	// Written outside the known quality tiers; discovery falls back to the
	// bounded recursive scan.
	produced := filepath.Join(mediaDir, "2160p60", "SomethingElse.mp4")
	stub := writeStub(t, "mkdir -p "+filepath.Dir(produced)+"\necho video > "+produced)

	r := NewRenderer(stub, "-ql", "src/generated_animations.py", mediaDir, 5*time.Second, fs.NewOsFileSystem())
	res := r.Render(className)
	require.True(t, res.Success, "render failed: %s", res.Err)
	assert.Equal(t, produced, res.VideoPath)
}

func TestRenderArtifactNotFound(t *testing.T) {
	stub := writeStub(t, "echo done\nexit 0")
	r, _ := newTestRenderer(t, stub, 5*time.Second)

	res := r.Render("GeneratedScene_20240102_150405")
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "video file not found after rendering")
	assert.Contains(t, res.Log, "done")
}
