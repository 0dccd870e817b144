package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/manimatic/manimatic/fs"
)

// Quality-tier directory names the manim CLI writes under the media
// directory, checked in the order a low-quality render makes most likely.
var qualityDirs = []string{"480p15", "720p30", "1080p60"}

// Result is the outcome of one render invocation.
type Result struct {
	Success   bool
	VideoPath string
	Err       string
	Log       string
}

// Renderer invokes the external manim CLI against the persisted scene
// script and locates the video it produces. Every failure is terminal;
// nothing here retries.
type Renderer struct {
	Bin        string
	Quality    string
	ScriptPath string
	MediaDir   string
	Timeout    time.Duration

	fs  *fs.FileSystem
	now func() time.Time
}

func NewRenderer(bin, quality, scriptPath, mediaDir string, timeout time.Duration, fsys *fs.FileSystem) *Renderer {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Renderer{
		Bin:        bin,
		Quality:    quality,
		ScriptPath: scriptPath,
		MediaDir:   mediaDir,
		Timeout:    timeout,
		fs:         fsys,
		now:        time.Now,
	}
}

// Render runs the manim CLI for className with stdout and stderr fully
// captured and a wall-clock timeout enforced through the command context.
func (r *Renderer) Render(className string) Result {
	started := r.now()

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Bin, r.Quality, r.ScriptPath, className)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Result{Err: fmt.Sprintf("%s not found. Please install manim: pip install manim", r.Bin)}
		}
		return Result{Err: fmt.Sprintf("rendering error: %v", err)}
	}

	waitErr := cmd.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		// The context kills the subprocess; no log is captured for a run
		// that never finished.
		return Result{Err: fmt.Sprintf("rendering timed out (>%s)", r.Timeout)}
	}

	log := stdout.String() + "\n" + stderr.String()

	if waitErr != nil {
		return Result{
			Err: fmt.Sprintf("rendering failed: %s", stderr.String()),
			Log: log,
		}
	}

	videoPath, ok := r.findVideo(className, started)
	if !ok {
		return Result{Err: "video file not found after rendering", Log: log}
	}

	return Result{Success: true, VideoPath: videoPath, Log: log}
}

// findVideo looks for the rendered artifact in the quality-tier directories
// manim writes by convention, then falls back to the most recently modified
// video anywhere under the media directory. The fallback only considers
// files modified at or after render start so a stale artifact from an
// earlier run never satisfies discovery.
func (r *Renderer) findVideo(className string, since time.Time) (string, bool) {
	candidates := make([]string, 0, len(qualityDirs))
	for _, q := range qualityDirs {
		candidates = append(candidates, filepath.Join(r.MediaDir, q, className+".mp4"))
	}
	if path, ok := r.fs.FirstExisting(candidates); ok {
		return path, true
	}
	// Filesystems may store second-granularity mtimes, so round the bound
	// down rather than dropping a file written in the render's first second.
	return r.fs.LatestVideo(r.MediaDir, ".mp4", since.Truncate(time.Second))
}
