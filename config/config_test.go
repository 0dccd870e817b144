package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadSettings("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "test-key", settings.APIKey)
	assert.Equal(t, "gpt-4o-mini", settings.ModelName)
	assert.Equal(t, "src/generated_animations.py", settings.ScriptPath)
	assert.Equal(t, "media/videos/generated_animations", settings.MediaDir)
	assert.Equal(t, 120, settings.RenderTimeout)
	assert.InDelta(t, 0.5, settings.InputCostPerMTok, 1e-9)
	assert.InDelta(t, 3.0, settings.OutputCostPerMTok, 1e-9)
}

func TestLoadSettingsFileOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_name: gpt-4o\nrender_timeout_seconds: 30\n"), 0644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.ModelName)
	assert.Equal(t, 30, settings.RenderTimeout)
}

func TestLoadSettingsBadFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_name: [unclosed"), 0644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
