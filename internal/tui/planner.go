package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/planner"
)

type plannerModel struct {
	store  *planner.Store
	width  int
	height int

	items        []plan.Item
	tasks        []plan.Task // sorted tasks of the selected item
	cursor       int
	taskCursor   int
	viewingTasks bool

	formActive bool
	form       *huh.Form
	formType   string // "item", "edit_item", "task", "edit_task"

	// Form field pointers (survive value copies)
	formName     *string
	formCategory *string
	formDue      *string
	formTopic    *string
	formDate     *string
	formStatus   *plan.Status

	editingItemID string
	editingTaskID string
}

func newPlannerModel(s *planner.Store) plannerModel {
	name, category, due, topic, date := "", string(plan.CategoryExam), "", "", ""
	status := plan.StatusNotStarted
	return plannerModel{
		store:        s,
		formName:     &name,
		formCategory: &category,
		formDue:      &due,
		formTopic:    &topic,
		formDate:     &date,
		formStatus:   &status,
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type itemsDataMsg struct {
	items []plan.Item
}

func (p plannerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return itemsDataMsg{items: p.store.Items()}
	}
}

func (p plannerModel) selectedItem() (plan.Item, bool) {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return plan.Item{}, false
	}
	return p.items[p.cursor], true
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case itemsDataMsg:
		p.items = msg.items
		if p.cursor >= len(p.items) {
			p.cursor = max(0, len(p.items)-1)
		}
		if item, ok := p.selectedItem(); ok {
			p.tasks = plan.SortedTasks(item)
		} else {
			p.tasks = nil
			p.viewingTasks = false
		}
		if p.taskCursor >= len(p.tasks) {
			p.taskCursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateItemList(msg)
	}
	return p, nil
}

func (p plannerModel) updateItemList(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.items) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refresh()
		}
	case key.Matches(msg, keys.New):
		return p.showNewItemForm()
	case key.Matches(msg, keys.Edit):
		if len(p.items) > 0 {
			return p.showEditItemForm()
		}
	case key.Matches(msg, keys.Delete):
		if item, ok := p.selectedItem(); ok {
			p.store.RemoveItem(item.ID)
			return p, p.refresh()
		}
	case key.Matches(msg, keys.Add):
		if item, ok := p.selectedItem(); ok {
			p.store.AddTask(item.ID)
			p.viewingTasks = true
			return p, p.refresh()
		}
	}
	return p, nil
}

func (p plannerModel) updateTaskView(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	item, ok := p.selectedItem()
	if !ok {
		p.viewingTasks = false
		return p, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.Add):
		p.store.AddTask(item.ID)
		return p, p.refresh()
	case key.Matches(msg, keys.Cycle), key.Matches(msg, keys.Enter):
		if p.taskCursor < len(p.tasks) {
			p.store.CycleTaskStatus(item.ID, p.tasks[p.taskCursor].ID)
			return p, p.refresh()
		}
	case key.Matches(msg, keys.Edit):
		if p.taskCursor < len(p.tasks) {
			return p.showEditTaskForm(item, p.tasks[p.taskCursor])
		}
	case key.Matches(msg, keys.Delete):
		if p.taskCursor < len(p.tasks) {
			p.store.RemoveTask(item.ID, p.tasks[p.taskCursor].ID)
			return p, p.refresh()
		}
	}
	return p, nil
}

func categoryOptions() []huh.Option[string] {
	options := make([]huh.Option[string], len(plan.Categories))
	for i, c := range plan.Categories {
		options[i] = huh.NewOption(c.Title(), string(c))
	}
	return options
}

func statusOptions() []huh.Option[plan.Status] {
	return []huh.Option[plan.Status]{
		huh.NewOption("Not started", plan.StatusNotStarted),
		huh.NewOption("In progress", plan.StatusInProgress),
		huh.NewOption("Done", plan.StatusDone),
	}
}

func (p plannerModel) showNewItemForm() (plannerModel, tea.Cmd) {
	*p.formCategory = string(plan.CategoryExam)
	p.formType = "item"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Category").Options(categoryOptions()...).Value(p.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) showEditItemForm() (plannerModel, tea.Cmd) {
	item := p.items[p.cursor]
	*p.formName = item.Name
	*p.formDue = item.DueDate
	p.formType = "edit_item"
	p.editingItemID = item.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(p.formName),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(p.formDue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) showEditTaskForm(item plan.Item, task plan.Task) (plannerModel, tea.Cmd) {
	*p.formTopic = task.Topic
	*p.formDate = task.Date
	*p.formStatus = task.Status
	p.formType = "edit_task"
	p.editingItemID = item.ID
	p.editingTaskID = task.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Topic").Value(p.formTopic),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(p.formDate),
			huh.NewSelect[plan.Status]().Title("Status").Options(statusOptions()...).Value(p.formStatus),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "item":
			p.store.CreateItem(plan.Category(*p.formCategory))
			return p, p.refresh()
		case "edit_item":
			patch := planner.ItemPatch{}
			if *p.formName != "" {
				patch.Name = p.formName
			}
			if _, err := plan.ParseDate(*p.formDue); err == nil {
				patch.DueDate = p.formDue
			}
			p.store.UpdateItem(p.editingItemID, patch)
			return p, p.refresh()
		case "edit_task":
			if *p.formTopic != "" {
				p.store.SetTaskTopic(p.editingItemID, p.editingTaskID, *p.formTopic)
			}
			if _, err := plan.ParseDate(*p.formDate); err == nil {
				p.store.SetTaskDate(p.editingItemID, p.editingTaskID, *p.formDate)
			}
			p.store.SetTaskStatus(p.editingItemID, p.editingTaskID, *p.formStatus)
			return p, p.refresh()
		}
	}

	return p, cmd
}

func (p plannerModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Item")
		switch p.formType {
		case "edit_item":
			title = titleStyle.Render("Edit Item")
		case "edit_task":
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderItemList()
}

func (p plannerModel) renderItemList() string {
	w := p.width - 4
	today := plan.Today()

	dueCount := 0
	for _, item := range p.items {
		dueCount += len(plan.TasksDueOn(item, today))
	}
	title := titleStyle.Render("Planner") + mutedStyle.Render(fmt.Sprintf("  %d task(s) due today", dueCount))

	if len(p.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No items yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-9s %-12s %s", "", "Name", "Category", "Due", "Progress"))
	rows = append(rows, header)

	for i, item := range p.items {
		dot := itemAccent(item).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		due := item.DueDate
		if item.Category == plan.CategoryDaily {
			due = "-"
		} else if d := plan.DaysUntil(item.DueDate); d >= 0 {
			due = fmt.Sprintf("%s (%dd)", item.DueDate, d)
		}

		row := style.Render(fmt.Sprintf("%s%s %-24s %-9s %-16s %3d%%",
			cursor, dot, item.Name, item.Category.Title(), due, plan.Progress(item)))
		rows = append(rows, row)
	}

	rows = append(rows, "", mutedStyle.Render("  n: new  e: edit  a: add task  d: delete  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plannerModel) renderTaskView() string {
	w := p.width - 4
	item, ok := p.selectedItem()
	if !ok {
		return panelStyle.Width(w).Render(mutedStyle.Render("No item selected"))
	}

	dot := itemAccent(item).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s — %d%%", dot, item.Name, plan.Progress(item)))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press a to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")

	for i, task := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		glyph := statusStyle(task.Status).Render(statusGlyph(task.Status))
		rows = append(rows, fmt.Sprintf("%s%s %s %s",
			cursor, glyph, mutedStyle.Render(task.Date), style.Render(task.Topic)))
	}

	rows = append(rows, "", mutedStyle.Render("  a: add  c/enter: cycle status  e: edit  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
