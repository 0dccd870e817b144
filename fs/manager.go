package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// WriteFile creates a new file with the given content or overwrites an
// existing file with the content, creating parent directories as needed.
func (fs *FileSystem) WriteFile(path string, content string) error {
	dir := filepath.Dir(path)
	if err := fs.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	if err := afero.WriteFile(fs.Fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the contents of a file.
func (fs *FileSystem) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(fs.Fs, path)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return string(data), nil
}

// FileExists checks if a file exists
func (fs *FileSystem) FileExists(path string) bool {
	_, err := fs.Fs.Stat(path)
	return !os.IsNotExist(err)
}

// FirstExisting returns the first path in candidates that exists on disk.
func (fs *FileSystem) FirstExisting(candidates []string) (string, bool) {
	for _, path := range candidates {
		if fs.FileExists(path) {
			return path, true
		}
	}
	return "", false
}

// LatestVideo walks root recursively and returns the most recently modified
// file with the given extension, considering only files modified at or after
// since. Older files are stale artifacts from previous runs and never match.
func (fs *FileSystem) LatestVideo(root, ext string, since time.Time) (string, bool) {
	if ok, err := afero.DirExists(fs.Fs, root); err != nil || !ok {
		return "", false
	}

	var latest string
	var latestMod time.Time
	_ = afero.Walk(fs.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ext) {
			return nil
		}
		mod := info.ModTime()
		if mod.Before(since) {
			return nil
		}
		if latest == "" || mod.After(latestMod) {
			latest = path
			latestMod = mod
		}
		return nil
	})

	return latest, latest != ""
}
