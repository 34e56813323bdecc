package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
)

// viewState represents the currently active view.
type viewState int

const (
	viewPlanner viewState = iota
	viewPomodoro
	viewStats
	viewSettings
)

var viewNames = []string{"Planner", "Pomodoro", "Stats", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// syncMsg carries a persistence status change out of the store's
// debounce goroutine into the update loop.
type syncMsg planner.SyncStatus

// settingsSavedMsg routes new durations from the settings form to the
// pomodoro model, which owns the engine.
type settingsSavedMsg struct {
	focusMinutes int
	breakMinutes int
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// statusGlyph is the tri-state marker rendered next to a task.
func statusGlyph(s plan.Status) string {
	switch s {
	case plan.StatusDone:
		return "[x]"
	case plan.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func statusStyle(s plan.Status) lipgloss.Style {
	switch s {
	case plan.StatusDone:
		return successStyle
	case plan.StatusInProgress:
		return warningStyle
	default:
		return mutedStyle
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
