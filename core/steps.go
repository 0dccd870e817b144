package core

import (
	"fmt"
	"time"

	"github.com/manimatic/manimatic/fs"
	"github.com/manimatic/manimatic/llm"
	"github.com/manimatic/manimatic/prompt"
	"github.com/manimatic/manimatic/scene"
)

type StepManager interface {
	GetSteps() []StepType
	GetStep(stepType StepType) Step
}

// StepConfig carries the fixed paths and rates the steps share.
type StepConfig struct {
	ScriptPath        string
	InputCostPerMTok  float64
	OutputCostPerMTok float64
}

type DefaultStepManager struct {
	steps map[StepType]Step
}

func NewDefaultStepManager(client llm.LlmClient, loader *prompt.Loader, fsys *fs.FileSystem, renderer Renderer, cfg StepConfig) *DefaultStepManager {
	return &DefaultStepManager{
		steps: map[StepType]Step{
			GeneratePlan: &GeneratePlanStep{client: client, loader: loader},
			GenerateCode: &GenerateCodeStep{client: client, loader: loader, fs: fsys, cfg: cfg, now: time.Now},
			RenderScene:  &RenderSceneStep{renderer: renderer},
			Done:         &DoneStep{},
		},
	}
}

func (sm *DefaultStepManager) GetSteps() []StepType {
	return []StepType{GeneratePlan, GenerateCode, RenderScene, Done}
}

func (sm *DefaultStepManager) GetStep(stepType StepType) Step {
	return sm.steps[stepType]
}

type GeneratePlanStep struct {
	client llm.LlmClient
	loader *prompt.Loader
}

func (s *GeneratePlanStep) Execute(state *State) error {
	state.Logger.Info("Creating animation plan...")
	plan, usage, err := llm.GeneratePlan(s.client, s.loader, state.Request.Prompt)
	if err != nil {
		state.Logger.Error("Failed to generate animation plan")
		return fmt.Errorf("failed to generate animation plan: %w", err)
	}
	state.Plan = plan
	state.Usage.AddPlan(usage)
	state.Logger.Info(fmt.Sprintf("Plan completed (%d tokens)", usage.OutputTokens))
	return nil
}

type GenerateCodeStep struct {
	client llm.LlmClient
	loader *prompt.Loader
	fs     *fs.FileSystem
	cfg    StepConfig
	now    func() time.Time
}

func (s *GenerateCodeStep) Execute(state *State) error {
	state.Logger.Info("Generating scene code...")
	className := scene.ClassName(s.now())

	raw, usage, err := llm.GenerateSceneCode(s.client, s.loader, state.Plan, state.Request.Prompt, className)
	if err != nil {
		state.Logger.Error("Failed to generate scene code")
		return fmt.Errorf("failed to generate scene code: %w", err)
	}
	state.Usage.AddCode(usage)

	code := scene.CleanCode(raw)
	code = scene.EnsureClassName(code, className)
	state.Code = code
	state.ClassName = className

	if err := s.fs.WriteFile(s.cfg.ScriptPath, code); err != nil {
		return fmt.Errorf("failed to write scene script: %w", err)
	}

	// Both model calls have returned at this point, so the totals and the
	// cost estimate are complete.
	state.Usage.Finalize(s.cfg.InputCostPerMTok, s.cfg.OutputCostPerMTok)
	state.Logger.Info(fmt.Sprintf("Code generated (%d tokens)", usage.OutputTokens))
	return nil
}

type RenderSceneStep struct {
	renderer Renderer
}

func (s *RenderSceneStep) Execute(state *State) error {
	state.Logger.Info("Rendering animation video...")
	res := s.renderer.Render(state.ClassName)
	state.Logs = res.Log
	if !res.Success {
		state.Logger.Error(fmt.Sprintf("Rendering failed: %s", res.Err))
		return fmt.Errorf("%s", res.Err)
	}
	state.VideoPath = res.VideoPath
	state.Logger.Info(fmt.Sprintf("Animation generated successfully: %s", res.VideoPath))
	return nil
}

// DoneStep marks pipeline completion for publishers; it does no work.
type DoneStep struct{}

func (s *DoneStep) Execute(state *State) error {
	return nil
}
