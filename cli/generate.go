package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/manimatic/manimatic/config"
	"github.com/manimatic/manimatic/core"
	"github.com/manimatic/manimatic/fs"
	"github.com/manimatic/manimatic/logger"
	"github.com/manimatic/manimatic/store"
)

type state int

const (
	Input state = iota
	Initializing
	Processing
	Finished
)

type genFlags struct {
	model  string
	config string
	db     string
}

type generateCmdModel struct {
	textInput      textinput.Model
	spinner        spinner.Model
	state          state
	request        *core.Request
	completedSteps []core.StepType
	engine         *Engine
	engineCtx      context.Context
	engineCancel   context.CancelFunc
	publisher      *CliStepPublisher
	logger         logger.Logger
	runs           store.RunStore
	result         *core.Result
}

func newGenerateModel(promptText string, f genFlags) (generateCmdModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Describe your animation..."
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 80

	logger.InitLogger()
	log := logger.GetLogger()
	log.Debug("Initializing manimatic CLI")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	settings, err := config.LoadSettings(f.config)
	if err != nil {
		return generateCmdModel{}, err
	}
	if f.db != "" {
		settings.DatabasePath = f.db
	}

	req := core.NewRequest(promptText, settings.APIKey, settings.ModelName)
	if f.model != "" {
		req.ModelName = f.model
	}

	runs, err := store.NewSQLiteStore(settings.DatabasePath)
	if err != nil {
		return generateCmdModel{}, err
	}

	osFs := fs.NewOsFileSystem()
	publisher := NewCliStepPublisher(log)
	engine, err := NewAnimationEngine(publisher, log, settings, osFs, runs)
	if err != nil {
		return generateCmdModel{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	initial := Input
	if promptText != "" {
		initial = Initializing
	}

	m := generateCmdModel{
		textInput:    ti,
		spinner:      s,
		state:        initial,
		logger:       log,
		request:      req,
		engine:       engine,
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    publisher,
		runs:         runs,
	}
	engine.Start(ctx)
	return m, nil
}

func (m generateCmdModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case Finished:
		return m, tea.Quit
	case Initializing:
		m.state = Processing
		return m, tea.Batch(m.spinner.Tick, m.handleGeneration())
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd := m.handleKeyPress(msg)
		if cmd != nil {
			return m, cmd
		}
	case core.StepType:
		return m.handleStep(msg)
	case *core.Result:
		return m.handleResult(msg)
	case error:
		return m, tea.Sequence(tea.Printf("Error: %s", msg), tea.Quit)
	default:
		if m.state == Processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf(
			"What should the animation show?\n\n%s\n\n%s",
			m.textInput.View(),
			"(press enter to generate or esc to quit)",
		)
	case Initializing:
		return fmt.Sprintf("%s Initializing", m.spinner.View())
	case Processing:
		steps := []struct {
			present string
			past    string
		}{
			{"Creating animation plan.", "Created animation plan."},
			{"Generating scene code.", "Generated scene code."},
			{"Rendering animation video.", "Rendered animation video."},
			{"Done.", "Done."},
		}

		enumerator := func(l list.Items, i int) string {
			var e string
			if i < len(m.completedSteps) {
				checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
				e = checkStyle.Render("✓")
			} else if i == len(m.completedSteps) {
				e = m.spinner.View()
			}
			return e
		}

		l := list.New().Enumerator(enumerator)
		for i, step := range steps {
			if i < len(m.completedSteps) {
				l.Item(step.past)
			} else if i == len(m.completedSteps) {
				l.Item(step.present)
			}
		}
		return fmt.Sprint(l)
	case Finished:
		return ""
	default:
		m.logger.Error("An error occurred")
		return "An error occurred."
	}
}

func (m *generateCmdModel) Shutdown() {
	m.engineCancel()
	m.engine.Shutdown(5 * time.Second)
	if m.runs != nil {
		m.runs.Close()
	}
}

func (m *generateCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case Input:
		return m.handleInputState(msg)
	default:
		return m.handleQuit(msg)
	}
}

func (m *generateCmdModel) handleInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleKeyEnter()
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	return m, nil
}

func (m *generateCmdModel) handleKeyEnter() (tea.Model, tea.Cmd) {
	if m.state != Input {
		return m, nil
	}
	v := m.textInput.Value()

	// No input, quit.
	if v == "" {
		placeholderStyle := lipgloss.NewStyle().Faint(true)
		message := placeholderStyle.Render("No animation description entered. Exiting...")
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	m.textInput.SetValue("")
	m.request.Prompt = v
	m.state = Initializing
	placeholderStyle := lipgloss.NewStyle().Faint(true).Width(80)
	message := placeholderStyle.Render(fmt.Sprintf("> %s", v))
	return m, tea.Printf("%s", message)
}

func (m *generateCmdModel) listenForNextStep() tea.Msg {
	return <-m.publisher.stepChan
}

func (m *generateCmdModel) handleGeneration() tea.Cmd {
	resultChan := m.engine.AddRequest(m.request)
	listenForResult := func() tea.Msg {
		select {
		case result := <-resultChan:
			return result
		case <-time.After(10 * time.Minute):
			m.logger.Error("Animation generation timed out")
			return errors.New("animation generation timed out")
		}
	}
	return tea.Batch(m.listenForNextStep, listenForResult)
}

func (m *generateCmdModel) handleStep(step core.StepType) (tea.Model, tea.Cmd) {
	m.logger.Debug(fmt.Sprintf("Received step: %v", step))
	m.completedSteps = append(m.completedSteps, step)
	return m, tea.Batch(m.spinner.Tick, m.listenForNextStep)
}

func (m *generateCmdModel) handleResult(result *core.Result) (tea.Model, tea.Cmd) {
	m.result = result
	m.state = Finished

	if !result.Success {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
		message := errStyle.Render(fmt.Sprintf("Generation failed: %s", result.Error))
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}

	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	usage := result.TokenUsage
	summary := fmt.Sprintf(
		"Animation generated: %s\nTokens: %d in / %d out, estimated cost $%.4f",
		pathStyle.Render(result.VideoPath),
		usage.TotalInputTokens,
		usage.TotalOutputTokens,
		usage.TotalCostUSD,
	)
	return m, tea.Sequence(tea.Printf("%s", summary), tea.Quit)
}

func (m *generateCmdModel) handleQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User exited the application")
		style := lipgloss.NewStyle().Faint(true)
		message := style.Render("Interrupted. Exiting application...")
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	return m, nil
}
