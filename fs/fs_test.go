package fs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParents(t *testing.T) {
	memFS := NewMemoryFileSystem()

	err := memFS.WriteFile("src/generated_animations.py", "from manim import *")
	require.NoError(t, err)

	content, err := memFS.ReadFile("src/generated_animations.py")
	require.NoError(t, err)
	assert.Equal(t, "from manim import *", content)
}

func TestWriteFileOverwrites(t *testing.T) {
	memFS := NewMemoryFileSystem()

	require.NoError(t, memFS.WriteFile("out.py", "old"))
	require.NoError(t, memFS.WriteFile("out.py", "new"))

	content, err := memFS.ReadFile("out.py")
	require.NoError(t, err)
	assert.Equal(t, "new", content)
}

func TestFirstExisting(t *testing.T) {
	memFS := NewMemoryFileSystem()
	require.NoError(t, memFS.WriteFile("media/720p30/Scene.mp4", "video"))

	path, ok := memFS.FirstExisting([]string{
		"media/480p15/Scene.mp4",
		"media/720p30/Scene.mp4",
		"media/1080p60/Scene.mp4",
	})
	require.True(t, ok)
	assert.Equal(t, "media/720p30/Scene.mp4", path)

	_, ok = memFS.FirstExisting([]string{"media/480p15/Other.mp4"})
	assert.False(t, ok)
}

func TestLatestVideoPicksMostRecent(t *testing.T) {
	memFS := NewMemoryFileSystem()
	base := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, memFS.WriteFile("media/a/old.mp4", "video"))
	require.NoError(t, memFS.WriteFile("media/b/new.mp4", "video"))
	require.NoError(t, memFS.WriteFile("media/b/notes.txt", "text"))
	require.NoError(t, memFS.Fs.Chtimes("media/a/old.mp4", base, base.Add(1*time.Minute)))
	require.NoError(t, memFS.Fs.Chtimes("media/b/new.mp4", base, base.Add(2*time.Minute)))
	require.NoError(t, memFS.Fs.Chtimes("media/b/notes.txt", base, base.Add(3*time.Minute)))

	path, ok := memFS.LatestVideo("media", ".mp4", base)
	require.True(t, ok)
	assert.Equal(t, "media/b/new.mp4", path)
}

func TestLatestVideoIgnoresStaleFiles(t *testing.T) {
	memFS := NewMemoryFileSystem()
	base := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, memFS.WriteFile("media/old.mp4", "video"))
	require.NoError(t, memFS.Fs.Chtimes("media/old.mp4", base, base.Add(-time.Hour)))

	// A file older than the bound is a leftover from a previous run.
	_, ok := memFS.LatestVideo("media", ".mp4", base)
	assert.False(t, ok)
}

func TestLatestVideoMissingRoot(t *testing.T) {
	memFS := NewMemoryFileSystem()
	_, ok := memFS.LatestVideo("media", ".mp4", time.Now())
	assert.False(t, ok)
}
