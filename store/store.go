package store

import (
	"time"

	"github.com/manimatic/manimatic/core"
)

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	ID           string       `json:"id"`
	Prompt       string       `json:"prompt"`
	Success      bool         `json:"success"`
	ClassName    string       `json:"class_name"`
	VideoPath    string       `json:"video_path"`
	Error        string       `json:"error"`
	TotalTokens  int          `json:"total_tokens"`
	TotalCostUSD float64      `json:"total_cost_usd"`
	CreatedAt    time.Time    `json:"created_at"`
	Result       *core.Result `json:"result,omitempty"`
}

// RunStore persists pipeline results so the history view has something to
// show across invocations.
type RunStore interface {
	SaveRun(prompt string, result *core.Result) (*RunRecord, error)
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}
