package scene

import (
	"regexp"
	"strings"
	"time"
)

// ClassPrefix is the fixed prefix for generated scene class names.
const ClassPrefix = "GeneratedScene_"

var (
	pythonFencePattern = regexp.MustCompile("```python\\s*")
	fencePattern       = regexp.MustCompile("```\\s*")
	classDeclPattern   = regexp.MustCompile(`class\s+\w+\(Scene\)`)
)

// ClassName derives a scene class name from wall-clock time. Two calls
// within the same second produce the same name; the renderer and artifact
// lookup both key on it, so the collision is accepted rather than hidden.
func ClassName(now time.Time) string {
	return ClassPrefix + now.Format("20060102_150405")
}

// CleanCode strips markdown code fences and surrounding whitespace from
// model output. Running it on already-clean code is a no-op.
func CleanCode(code string) string {
	code = pythonFencePattern.ReplaceAllString(code, "")
	code = fencePattern.ReplaceAllString(code, "")
	return strings.TrimSpace(code)
}

// EnsureClassName rewrites any scene class declaration to use className,
// overwriting whatever name the model chose. Best-effort textual transform:
// if no declaration matches, the code passes through unchanged.
func EnsureClassName(code, className string) string {
	return classDeclPattern.ReplaceAllString(code, "class "+className+"(Scene)")
}
