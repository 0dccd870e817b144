package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manimatic/manimatic/config"
	"github.com/manimatic/manimatic/core"
	"github.com/manimatic/manimatic/fs"
	"github.com/manimatic/manimatic/llm"
	"github.com/manimatic/manimatic/logger"
	"github.com/manimatic/manimatic/prompt"
	"github.com/manimatic/manimatic/render"
	"github.com/manimatic/manimatic/store"
)

type ExecutionRequest struct {
	Request    *core.Request
	ResultChan chan *core.Result
	CreatedAt  time.Time
}

// Engine serializes pipeline runs. The generated script path and the media
// tree are shared between runs, so concurrent callers race on them; with a
// single worker the engine is the serialization the pipeline requires.
type Engine struct {
	pub          core.StepPublisher
	logger       logger.Logger
	requests     chan ExecutionRequest
	workers      int
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}
	fs           *fs.FileSystem
	settings     *config.Settings
	runs         store.RunStore
}

func NewAnimationEngine(pub core.StepPublisher, l logger.Logger, settings *config.Settings, fsys *fs.FileSystem, runs store.RunStore) (*Engine, error) {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Engine{
		pub:          pub,
		logger:       l,
		requests:     make(chan ExecutionRequest, 1000), // Buffered channel
		workers:      1,
		shutdownChan: make(chan struct{}),
		fs:           fsys,
		settings:     settings,
		runs:         runs,
	}, nil
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx)
	}
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case req := <-e.requests:
			result := e.run(ctx, req.Request)
			req.ResultChan <- result
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) run(ctx context.Context, r *core.Request) *core.Result {
	llmCfg := llm.LlmConfig{
		APIKey:    r.APIKey,
		ModelName: r.ModelName,
		BatchID:   llm.EnsureBatchID(""),
		TellmURL:  e.settings.TellmURL,
	}
	client, err := llm.NewOpenAIClient(&llmCfg, e.logger)
	if err != nil {
		return &core.Result{Error: err.Error()}
	}

	loader := prompt.NewLoader(e.fs.Fs, e.settings.PromptsDir)
	renderer := render.NewRenderer(
		e.settings.ManimBin,
		e.settings.RenderQuality,
		e.settings.ScriptPath,
		e.settings.MediaDir,
		time.Duration(e.settings.RenderTimeout)*time.Second,
		e.fs,
	)
	stepManager := core.NewDefaultStepManager(client, loader, e.fs, renderer, core.StepConfig{
		ScriptPath:        e.settings.ScriptPath,
		InputCostPerMTok:  e.settings.InputCostPerMTok,
		OutputCostPerMTok: e.settings.OutputCostPerMTok,
	})
	pipeline, err := core.NewPipeline(r, stepManager, e.pub, e.logger)
	if err != nil {
		return &core.Result{Error: err.Error()}
	}

	result := pipeline.Run(ctx)

	if e.runs != nil {
		if _, err := e.runs.SaveRun(r.Prompt, result); err != nil {
			e.logger.Warn(fmt.Sprintf("Failed to record run: %v", err))
		}
	}
	return result
}

func (e *Engine) AddRequest(request *core.Request) chan *core.Result {
	resultChan := make(chan *core.Result, 1)
	e.requests <- ExecutionRequest{
		Request:    request,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	close(e.shutdownChan)

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
