package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
)

type statsModel struct {
	store  *planner.Store
	width  int
	height int

	items []plan.Item
	chart barchart.Model
}

func newStatsModel(s *planner.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	items []plan.Item
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return statsDataMsg{items: s.store.Items()}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(statsDataMsg); ok {
		s.items = msg.items
		s.buildChart()
		return s, nil
	}
	return s, nil
}

// buildChart renders one bar per item, height = percent of tasks done.
func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, item := range s.items {
		label := item.Name
		if len(label) > 8 {
			label = label[:8]
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  item.Name,
				Value: float64(plan.Progress(item)),
				Style: itemAccent(item),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	totalTasks, doneTasks := 0, 0
	for _, item := range s.items {
		totalTasks += len(item.Tasks)
		for _, t := range item.Tasks {
			if t.Status == plan.StatusDone {
				doneTasks++
			}
		}
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progress"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d/%d tasks done across %d item(s)", doneTasks, totalTasks, len(s.items))),
	)

	legend := s.renderLegend()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", s.chart.View(), "", legend),
	)
}

func (s statsModel) renderLegend() string {
	if len(s.items) == 0 {
		return mutedStyle.Render("  No items yet")
	}
	var parts []string
	for _, item := range s.items {
		dot := itemAccent(item).Render("●")
		parts = append(parts, fmt.Sprintf("%s %s %s", dot, item.Name, mutedStyle.Render(fmt.Sprintf("%d%%", plan.Progress(item)))))
	}
	return strings.Join(parts, "   ")
}
