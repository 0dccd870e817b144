package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Config keys selecting the template file for each pipeline stage.
const (
	PlannerKey = "planner_prompt_file"
	CodeGenKey = "code_gen_prompt_file"
)

// ConfigFileName is the per-directory file mapping config keys to template
// filenames. Missing file or keys fall back to the built-in defaults.
const ConfigFileName = "prompt_config.json"

func defaultConfig() map[string]string {
	return map[string]string{
		PlannerKey: "planner_system_prompt.txt",
		CodeGenKey: "code_gen_system_prompt.txt",
	}
}

// Loader reads prompt templates from a single directory. The directory is a
// trust boundary: a prompt_config.json is user-editable, so a configured
// filename must never resolve to a file outside the directory.
type Loader struct {
	fs  afero.Fs
	dir string
}

func NewLoader(fsys afero.Fs, dir string) *Loader {
	return &Loader{fs: fsys, dir: dir}
}

// NewOsLoader returns a Loader over the real filesystem.
func NewOsLoader(dir string) *Loader {
	return NewLoader(afero.NewOsFs(), dir)
}

// loadConfig merges prompt_config.json over the defaults. Only string values
// participate in the merge; malformed JSON is a hard error.
func (l *Loader) loadConfig() (map[string]string, error) {
	configPath := filepath.Join(l.dir, ConfigFileName)

	data, err := afero.ReadFile(l.fs, configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading %s: %w", configPath, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", configPath, err)
	}

	merged := defaultConfig()
	for k, v := range raw {
		if s, ok := v.(string); ok {
			merged[k] = s
		}
	}
	return merged, nil
}

// Template resolves a config key to a template file inside the prompts
// directory and returns its contents.
func (l *Loader) Template(key string) (string, error) {
	config, err := l.loadConfig()
	if err != nil {
		return "", err
	}

	selected, ok := config[key]
	if !ok || strings.TrimSpace(selected) == "" {
		return "", fmt.Errorf("prompt config key %q must be a non-empty string", key)
	}

	path, err := l.resolve(key, selected)
	if err != nil {
		return "", err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("configured prompt file not found for %q: %s", key, path)
		}
		return "", fmt.Errorf("error reading prompt file for %q: %w", key, err)
	}
	return string(data), nil
}

// resolve joins the configured filename onto the prompts directory and
// rejects anything that would escape it. The containment check runs before
// any read so a traversal attempt never touches the target file.
func (l *Loader) resolve(key, selected string) (string, error) {
	if filepath.IsAbs(selected) {
		return "", fmt.Errorf("prompt file for %q must be inside %q", key, l.dir)
	}

	base := filepath.Clean(l.dir)
	path := filepath.Clean(filepath.Join(base, selected))

	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("prompt file for %q must be inside %q", key, l.dir)
	}
	return path, nil
}

// Render replaces every {key} occurrence in the template with its value.
// Unknown placeholders are left alone rather than failing the render.
func Render(template string, values map[string]string) string {
	rendered := template
	for key, value := range values {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", value)
	}
	return rendered
}
