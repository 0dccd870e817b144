package core

import "github.com/manimatic/manimatic/llm"

// TokenUsage accumulates the per-call token counts the model reports and
// the derived cost estimate. Per-stage counts are recorded as each call
// returns, so a failure later in the pipeline still leaves the earlier
// stage's counts visible in the result. Totals and cost are only computed
// once both model calls have succeeded.
type TokenUsage struct {
	PlanInputTokens  int `json:"plan_input_tokens"`
	PlanOutputTokens int `json:"plan_output_tokens"`
	CodeInputTokens  int `json:"code_input_tokens"`
	CodeOutputTokens int `json:"code_output_tokens"`

	TotalInputTokens  int `json:"total_input_tokens"`
	TotalOutputTokens int `json:"total_output_tokens"`

	InputCostUSD  float64 `json:"input_cost_usd"`
	OutputCostUSD float64 `json:"output_cost_usd"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
}

func (u *TokenUsage) AddPlan(usage llm.Usage) {
	u.PlanInputTokens = usage.InputTokens
	u.PlanOutputTokens = usage.OutputTokens
}

func (u *TokenUsage) AddCode(usage llm.Usage) {
	u.CodeInputTokens = usage.InputTokens
	u.CodeOutputTokens = usage.OutputTokens
}

// Finalize sums both stages and prices them at the given USD-per-million
// token rates.
func (u *TokenUsage) Finalize(inputRatePerMTok, outputRatePerMTok float64) {
	u.TotalInputTokens = u.PlanInputTokens + u.CodeInputTokens
	u.TotalOutputTokens = u.PlanOutputTokens + u.CodeOutputTokens
	u.InputCostUSD = float64(u.TotalInputTokens) / 1_000_000 * inputRatePerMTok
	u.OutputCostUSD = float64(u.TotalOutputTokens) / 1_000_000 * outputRatePerMTok
	u.TotalCostUSD = u.InputCostUSD + u.OutputCostUSD
}

// Result is the single record every caller of the pipeline depends on. It is
// always well-formed: a failure partway through keeps whatever the earlier
// stages produced for diagnostic display.
type Result struct {
	Success    bool       `json:"success"`
	Plan       string     `json:"plan"`
	Code       string     `json:"code"`
	ClassName  string     `json:"class_name"`
	VideoPath  string     `json:"video_path"`
	Error      string     `json:"error"`
	Logs       string     `json:"logs"`
	TokenUsage TokenUsage `json:"token_usage"`
}
