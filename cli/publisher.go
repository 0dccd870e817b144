package cli

import (
	"fmt"

	"github.com/manimatic/manimatic/core"
	"github.com/manimatic/manimatic/logger"
)

type CliStepPublisher struct {
	stepChan chan core.StepType
	logger   logger.Logger
}

func NewCliStepPublisher(logger logger.Logger) *CliStepPublisher {
	return &CliStepPublisher{
		stepChan: make(chan core.StepType, 100), // Buffer size of 100
		logger:   logger,
	}
}

func (p *CliStepPublisher) PublishStep(step core.StepType) {
	select {
	case p.stepChan <- step:
		p.logger.Debug(fmt.Sprintf("Successfully published step: %v", step))
	default:
		p.logger.Warn(fmt.Sprintf("Failed to publish step: %v. Channel full.", step))
	}
}

// Error only logs; the stage error reaches the UI through the pipeline's
// result record, which carries the partial plan/code/logs alongside it.
func (p *CliStepPublisher) Error(step core.StepType, err error) {
	p.logger.Error(fmt.Sprintf("Step %v failed: %v", step, err))
}
