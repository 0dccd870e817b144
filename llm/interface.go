package llm

// Usage is the token count pair the external model reports per call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

type LlmClient interface {
	GetCompletion(prompt string) (string, Usage, error)
}
