package plan

import (
	"encoding/json"
	"math"
	"sort"
)

// Category groups items for display and filtering. Fixed at creation.
type Category string

const (
	CategoryExam    Category = "exam"
	CategoryProject Category = "project"
	CategoryDaily   Category = "daily"
)

var Categories = []Category{CategoryExam, CategoryProject, CategoryDaily}

// Palette is the fixed accent palette indexed by Item.ColorIndex.
var Palette = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

// Title is the display label for a category.
func (c Category) Title() string {
	switch c {
	case CategoryExam:
		return "Exam"
	case CategoryProject:
		return "Project"
	case CategoryDaily:
		return "Daily"
	}
	return string(c)
}

// DueOffsetDays is the default due-date offset applied when creating an
// item of this category. Daily lists are due today.
func (c Category) DueOffsetDays() int {
	if c == CategoryDaily {
		return 0
	}
	return 14
}

type Task struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Topic  string `json:"topic"`
	Status Status `json:"status"`
}

type Item struct {
	ID         string   `json:"id"`
	Category   Category `json:"category"`
	Name       string   `json:"name"`
	ColorIndex int      `json:"colorIndex"`
	DueDate    string   `json:"dueDate"`
	Tasks      []Task   `json:"tasks"`
}

// UnmarshalJSON tolerates the legacy examDate field name for dueDate.
func (i *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	aux := struct {
		*alias
		ExamDate string `json:"examDate"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.DueDate == "" && aux.ExamDate != "" {
		i.DueDate = aux.ExamDate
	}
	return nil
}

// Color returns the palette accent for the item.
func (i Item) Color() string {
	if len(Palette) == 0 {
		return ""
	}
	idx := i.ColorIndex % len(Palette)
	if idx < 0 {
		idx += len(Palette)
	}
	return Palette[idx]
}

// Progress is the rounded percentage of done tasks, 0 for an empty list.
func Progress(item Item) int {
	if len(item.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range item.Tasks {
		if t.Status == StatusDone {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(item.Tasks))))
}

// SortedTasks returns the tasks ordered by date (insertion order is not
// meaningful for display). Ties keep insertion order.
func SortedTasks(item Item) []Task {
	tasks := make([]Task, len(item.Tasks))
	copy(tasks, item.Tasks)
	sort.SliceStable(tasks, func(a, b int) bool {
		return tasks[a].Date < tasks[b].Date
	})
	return tasks
}

// TasksDueOn returns the item's tasks dated exactly on the given day.
func TasksDueOn(item Item, date string) []Task {
	var due []Task
	for _, t := range item.Tasks {
		if t.Date == date {
			due = append(due, t)
		}
	}
	return due
}

// CloneItems deep-copies an item list so callers can hand out snapshots
// without sharing task slices.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Tasks = make([]Task, len(item.Tasks))
		copy(out[i].Tasks, item.Tasks)
	}
	return out
}
