package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/manimatic/manimatic/logger"
	tellm "github.com/santiagomed/tellm/sdk"
	"github.com/sashabaranov/go-openai"
)

type LlmConfig struct {
	APIKey    string
	ModelName string
	BatchID   string
	TellmURL  string
}

// OpenAIClient represents an LLM client implementation
type OpenAIClient struct {
	openAIClient *openai.Client
	config       *LlmConfig
	tellmClient  *tellm.Client
	logger       logger.Logger
}

// NewOpenAIClient creates a new LLM client
func NewOpenAIClient(cfg *LlmConfig, logger logger.Logger) (LlmClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	openAIClient := openai.NewClient(cfg.APIKey)
	tellmClient := tellm.NewClient(cfg.TellmURL)
	return &OpenAIClient{
		openAIClient: openAIClient,
		config:       cfg,
		tellmClient:  tellmClient,
		logger:       logger,
	}, nil
}

// GetCompletion sends a request to the OpenAI API and returns the generated
// text along with the token usage the API reports for the call.
func (c *OpenAIClient) GetCompletion(prompt string) (string, Usage, error) {
	resp, err := c.openAIClient.CreateChatCompletion(
		context.Background(),
		openai.ChatCompletionRequest{
			Model: c.config.ModelName,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)

	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			// unauthorized
			return "", Usage{}, fmt.Errorf("unauthorized: invalid OpenAI API key")
		case 429:
			// rate limiting or engine overload (wait and retry)
			return "", Usage{}, fmt.Errorf("rate limited by OpenAI API")
		case 500:
			// openai server error (retry)
			return "", Usage{}, fmt.Errorf("OpenAI server error")
		default:
			// unhandled
			return "", Usage{}, fmt.Errorf("OpenAI API error: %v", e)
		}
	}
	if err != nil {
		return "", Usage{}, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("no choices returned from OpenAI")
	}
	res := resp.Choices[0].Message.Content
	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	err = c.tellmClient.Log(c.config.BatchID, prompt, res, c.config.ModelName, usage.InputTokens, usage.OutputTokens)
	if err != nil {
		c.logger.WithField("warning", err).Warn("failed to log to tellm")
	}

	return res, usage, nil
}
