package core

import (
	"context"
	"fmt"
	"time"

	"github.com/manimatic/manimatic/logger"
	"github.com/manimatic/manimatic/render"
)

type Step interface {
	Execute(state *State) error
}

type StepType int

const (
	GeneratePlan StepType = iota
	GenerateCode
	RenderScene
	Done
)

// Renderer runs the external render tool for a scene class.
type Renderer interface {
	Render(className string) render.Result
}

type State struct {
	Request   *Request
	Plan      string
	Code      string
	ClassName string
	VideoPath string
	Logs      string
	Usage     TokenUsage
	Logger    logger.Logger
}

type Pipeline struct {
	stepManager StepManager
	state       *State
	publisher   StepPublisher
}

func NewPipeline(r *Request, sm StepManager, pub StepPublisher, logger logger.Logger) (*Pipeline, error) {
	return &Pipeline{
		state: &State{
			Request: r,
			Logger:  logger,
		},
		publisher:   pub,
		stepManager: sm,
	}, nil
}

func (p *Pipeline) Execute(ctx context.Context) error {
	steps := p.stepManager.GetSteps()
	p.state.Logger.Info("Starting pipeline execution")
	for i, stepType := range steps {
		select {
		case <-ctx.Done():
			p.state.Logger.Info("Pipeline execution cancelled")
			return context.Canceled
		default:
			p.state.Logger.Info(fmt.Sprintf("Attempting to execute step %d: %v", i, stepType))
			step := p.stepManager.GetStep(stepType)
			if step == nil {
				p.state.Logger.Error(fmt.Sprintf("Step %v not found", stepType))
				p.publisher.Error(stepType, fmt.Errorf("step %v not found", stepType))
				return fmt.Errorf("step %v not found", stepType)
			}

			startTime := time.Now()
			if err := step.Execute(p.state); err != nil {
				p.state.Logger.Error(fmt.Sprintf("Error executing step %v", stepType))
				p.publisher.Error(stepType, err)
				return err
			}
			duration := time.Since(startTime)
			p.state.Logger.Info(fmt.Sprintf("Step %v completed in %v", stepType, duration))
			p.publisher.PublishStep(stepType)
		}
	}

	p.state.Logger.Info("Pipeline execution completed")
	return nil
}

// Run executes the pipeline and always returns a well-formed Result. Stage
// errors, including panics out of a stage, are converted into a failure
// result carrying whatever partial output the earlier stages produced; no
// error escapes to the caller.
func (p *Pipeline) Run(ctx context.Context) *Result {
	err := p.execute(ctx)

	result := &Result{
		Plan:       p.state.Plan,
		Code:       p.state.Code,
		ClassName:  p.state.ClassName,
		VideoPath:  p.state.VideoPath,
		Logs:       p.state.Logs,
		TokenUsage: p.state.Usage,
	}
	if err != nil {
		result.Error = err.Error()
		p.state.Logger.Error(fmt.Sprintf("Pipeline failed: %v", err))
	} else {
		result.Success = true
	}
	return result
}

func (p *Pipeline) execute(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error in animation generation pipeline: %v", r)
		}
	}()
	return p.Execute(ctx)
}

type StepPublisher interface {
	PublishStep(step StepType)
	Error(step StepType, err error)
}

type DefaultStepPublisher struct{}

func (p *DefaultStepPublisher) PublishStep(step StepType) {}

func (p *DefaultStepPublisher) Error(step StepType, err error) {}
