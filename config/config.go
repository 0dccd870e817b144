package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds everything the pipeline needs at startup: the model
// credential and name, cost rates, render limits, and the fixed paths the
// generator and renderer share.
type Settings struct {
	APIKey    string `mapstructure:"openai_api_key"`
	ModelName string `mapstructure:"model_name"`
	TellmURL  string `mapstructure:"tellm_url"`

	// Cost rates in USD per million tokens.
	InputCostPerMTok  float64 `mapstructure:"input_cost_per_mtok"`
	OutputCostPerMTok float64 `mapstructure:"output_cost_per_mtok"`

	PromptsDir    string `mapstructure:"prompts_dir"`
	ScriptPath    string `mapstructure:"script_path"`
	MediaDir      string `mapstructure:"media_dir"`
	ManimBin      string `mapstructure:"manim_bin"`
	RenderTimeout int    `mapstructure:"render_timeout_seconds"`
	DatabasePath  string `mapstructure:"database_path"`
	RenderQuality string `mapstructure:"render_quality"`
}

// DefaultSettings returns Settings with default values. The script and media
// paths follow the manim CLI's own convention: it writes videos under
// media/videos/<script basename>/<quality>/.
func DefaultSettings() *Settings {
	return &Settings{
		ModelName:         "gpt-4o-mini",
		TellmURL:          "http://localhost:8000",
		InputCostPerMTok:  0.5,
		OutputCostPerMTok: 3.0,
		PromptsDir:        "prompts",
		ScriptPath:        "src/generated_animations.py",
		MediaDir:          "media/videos/generated_animations",
		ManimBin:          "manim",
		RenderTimeout:     120,
		DatabasePath:      "manimatic.db",
		RenderQuality:     "-ql",
	}
}

// LoadSettings builds Settings from defaults, an optional settings file, and
// the environment. A .env file in the working directory is honored the same
// way the environment is. configPath may be empty.
func LoadSettings(configPath string) (*Settings, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("model_name", "gpt-4o-mini")
	v.SetDefault("tellm_url", "http://localhost:8000")
	v.SetDefault("input_cost_per_mtok", 0.5)
	v.SetDefault("output_cost_per_mtok", 3.0)
	v.SetDefault("prompts_dir", "prompts")
	v.SetDefault("script_path", "src/generated_animations.py")
	v.SetDefault("media_dir", "media/videos/generated_animations")
	v.SetDefault("manim_bin", "manim")
	v.SetDefault("render_timeout_seconds", 120)
	v.SetDefault("database_path", "manimatic.db")
	v.SetDefault("render_quality", "-ql")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the credential the external model API requires.
func (s *Settings) Validate() error {
	if s.APIKey == "" {
		return errors.New("OPENAI_API_KEY not found. Set it in your environment or .env file; keys are issued at https://platform.openai.com/api-keys")
	}
	return nil
}
