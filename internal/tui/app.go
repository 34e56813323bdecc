package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/export"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store  *planner.Store
	user   string
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	planner  plannerModel
	pomodoro pomodoroModel
	stats    statsModel
	settings settingsModel

	help   help.Model
	status string
	sync   planner.SyncStatus
}

func NewApp(s *planner.Store, user, exportDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		user:       user,
		activeView: viewPlanner,
		exportDir:  exportDir,
		planner:    newPlannerModel(s),
		pomodoro:   newPomodoroModel(s),
		stats:      newStatsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
		sync:       s.Status(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.planner.refresh(),
		tickCmd(),
	)
}

// The 500ms poll drives the countdown; each tick recomputes from the
// absolute target, so a delayed tick self-corrects.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.planner.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (a form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			if a.activeView == viewPlanner && !a.planner.viewingTasks {
				a.exportPicking = true
				a.exportCursor = 0
				return a, nil
			}
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewPlanner
			return a, a.planner.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case settingsSavedMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.settings, cmd = a.settings.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.status = "Settings saved"
		return a, tea.Batch(cmds...)

	case syncMsg:
		a.sync = planner.SyncStatus(msg)
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPlanner:
		return a.planner.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewPlanner:
		return a.planner.refresh()
	case viewStats:
		return a.stats.refresh()
	}
	return nil
}

var exportFormats = []string{"JSON", "CSV"}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
		return a, nil
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		format := exportFormats[a.exportCursor]
		items := a.store.Items()
		dir := a.exportDir
		return a, func() tea.Msg {
			stamp := time.Now().Format("20060102-150405")
			var path string
			var err error
			if format == "CSV" {
				path = filepath.Join(dir, "planner-"+stamp+".csv")
				err = export.ToCSV(items, path)
			} else {
				path = filepath.Join(dir, "planner-"+stamp+".json")
				err = export.ToJSON(items, path)
			}
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
			}
			return exportDoneMsg{path: path}
		}
	}
	return a, nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewPlanner:
		content = a.planner.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderExportPicker(height int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export items"), "")
	for i, format := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+format))
	}
	rows = append(rows, "", mutedStyle.Render("enter: export  esc: cancel"))

	panel := panelStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, panel)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("study planner")
	user := mutedStyle.Render(" " + a.user)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(user) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, user, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator, visible from any tab while running.
	timerInfo := ""
	if state := a.pomodoro.engine.State(); state.Running {
		icon := accentStyle.Render(" ● ")
		if state.Mode == timer.ModeBreak {
			icon = successStyle.Render(" ● ")
		}
		timerInfo = icon + formatCountdown(state.Remaining)
	}

	// Sync badge: a failure degrades to a visible indicator, never a
	// blocking error.
	syncInfo := ""
	if a.sync.Err != "" {
		syncInfo = errorStyle.Render(" ⚠ sync: " + a.sync.Err)
	} else if !a.sync.LastSaved.IsZero() {
		syncInfo = mutedStyle.Render(" ✓ saved " + a.sync.LastSaved.Format("15:04:05"))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + syncInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}
