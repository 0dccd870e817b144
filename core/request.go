package core

import "os"

// Request indicates the user's request for a new animation.
type Request struct {
	Prompt    string `mapstructure:"prompt"`
	APIKey    string `mapstructure:"openai_api_key"`
	ModelName string `mapstructure:"model_name"`
}

// DefaultRequest returns a Request with default values.
func DefaultRequest() *Request {
	return &Request{
		Prompt:    "Create a blue circle that transforms into a red square",
		APIKey:    os.Getenv("OPENAI_API_KEY"),
		ModelName: "gpt-4o-mini",
	}
}

func NewRequest(prompt, apiKey, modelName string) *Request {
	return &Request{
		Prompt:    prompt,
		APIKey:    apiKey,
		ModelName: modelName,
	}
}
