package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// pomodoroModel owns the timer engine. Every transition is persisted
// immediately so a restart resumes an in-progress countdown exactly.
type pomodoroModel struct {
	store  *planner.Store
	engine *timer.Engine
	width  int
	height int
}

func newPomodoroModel(s *planner.Store) pomodoroModel {
	engine := timer.New()
	if state, err := s.LoadTimer(); err == nil {
		engine.Restore(state)
	}
	return pomodoroModel{store: s, engine: engine}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) persist() tea.Cmd {
	state := p.engine.State()
	return func() tea.Msg {
		if err := p.store.SaveTimer(state); err != nil {
			return statusMsg{text: fmt.Sprintf("Timer save failed: %v", err), isError: true}
		}
		return nil
	}
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !p.engine.State().Running {
			return p, nil
		}
		if p.engine.Tick() {
			label := "Focus period complete! Break is ready. \a"
			if p.engine.State().Mode == timer.ModeFocus {
				label = "Break over. Ready for the next focus period. \a"
			}
			return p, tea.Batch(p.persist(), func() tea.Msg {
				return statusMsg{text: label}
			})
		}
		return p, nil

	case settingsSavedMsg:
		p.engine.SetFocusMinutes(msg.focusMinutes)
		p.engine.SetBreakMinutes(msg.breakMinutes)
		return p, p.persist()

	case tea.KeyMsg:
		state := p.engine.State()
		switch {
		case key.Matches(msg, keys.Start):
			if !state.Running {
				p.engine.Start()
				return p, p.persist()
			}
		case key.Matches(msg, keys.Pause):
			if state.Running {
				p.engine.Pause()
				return p, p.persist()
			}
		case key.Matches(msg, keys.Reset):
			p.engine.Reset()
			return p, p.persist()
		case key.Matches(msg, keys.Switch):
			p.engine.SwitchMode()
			return p, p.persist()
		}
	}
	return p, nil
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	state := p.engine.State()

	title := titleStyle.Render("Pomodoro Timer")

	countdown := formatCountdown(state.Remaining)
	var timeDisplay, modeLabel string
	switch {
	case state.Mode == timer.ModeFocus && state.Running:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(countdown)
		modeLabel = accentStyle.Bold(true).Render("FOCUS")
	case state.Mode == timer.ModeFocus:
		timeDisplay = timerStyle.Width(w - 6).Render(countdown)
		modeLabel = mutedStyle.Render("FOCUS — paused")
	case state.Running:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(countdown)
		modeLabel = successStyle.Bold(true).Render("BREAK")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(countdown)
		modeLabel = mutedStyle.Render("BREAK — paused")
	}

	cycles := p.renderCycles(state)

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		modeLabel,
		"",
		cycles,
	)

	var controls string
	if state.Running {
		controls = mutedStyle.Render("space: pause  r: reset  m: switch mode")
	} else {
		controls = mutedStyle.Render("s: start  r: reset  m: switch mode")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderCycles(state timer.State) string {
	shown := min(state.CompletedFocus, 8)
	var parts []string
	for i := 0; i < shown; i++ {
		parts = append(parts, successStyle.Render("●"))
	}
	dots := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d focus cycle(s) completed", state.CompletedFocus))
	if dots == "" {
		return counter
	}
	return dots + counter
}
