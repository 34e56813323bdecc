package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

type settingsModel struct {
	store  *planner.Store
	width  int
	height int

	focusMinutes int
	breakMinutes int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formFocus *string
	formBreak *string
}

func newSettingsModel(s *planner.Store) settingsModel {
	focus, brk := "", ""
	m := settingsModel{
		store:        s,
		focusMinutes: timer.DefaultFocusMinutes,
		breakMinutes: timer.DefaultBreakMinutes,
		formFocus:    &focus,
		formBreak:    &brk,
	}
	if state, err := s.LoadTimer(); err == nil {
		m.focusMinutes = state.FocusMinutes
		m.breakMinutes = state.BreakMinutes
	}
	return m
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsSavedMsg:
		s.focusMinutes = msg.focusMinutes
		s.breakMinutes = msg.breakMinutes
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formFocus = strconv.Itoa(s.focusMinutes)
	*s.formBreak = strconv.Itoa(s.breakMinutes)

	validateMinutes := func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("enter a number of minutes")
		}
		if n < timer.MinMinutes || n > timer.MaxMinutes {
			return fmt.Errorf("must be between %d and %d", timer.MinMinutes, timer.MaxMinutes)
		}
		return nil
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus duration (min)").Value(s.formFocus).Validate(validateMinutes),
			huh.NewInput().Title("Break duration (min)").Value(s.formBreak).Validate(validateMinutes),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false

		focus, err1 := strconv.Atoi(strings.TrimSpace(*s.formFocus))
		brk, err2 := strconv.Atoi(strings.TrimSpace(*s.formBreak))
		if err1 != nil || err2 != nil {
			return s, nil
		}

		s.focusMinutes = focus
		s.breakMinutes = brk
		// The pomodoro model owns the engine; route the new durations
		// to it so the idle countdown refreshes and state persists.
		return s, func() tea.Msg {
			return settingsSavedMsg{focusMinutes: focus, breakMinutes: brk}
		}
	}

	return s, cmd
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %-24s %s", "Focus duration", highlightStyle.Render(fmt.Sprintf("%d min", s.focusMinutes))),
		fmt.Sprintf("  %-24s %s", "Break duration", highlightStyle.Render(fmt.Sprintf("%d min", s.breakMinutes))),
		"",
		mutedStyle.Render("  enter: edit"),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
