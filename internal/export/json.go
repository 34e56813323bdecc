package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Items      []jsonItem `json:"items"`
}

type jsonItem struct {
	ID       string     `json:"id"`
	Category string     `json:"category"`
	Name     string     `json:"name"`
	DueDate  string     `json:"due_date,omitempty"`
	Progress int        `json:"progress"`
	Tasks    []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Topic  string `json:"topic"`
	Status string `json:"status"`
}

func ToJSON(items []plan.Item, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(items),
	}

	for _, item := range items {
		out := jsonItem{
			ID:       item.ID,
			Category: string(item.Category),
			Name:     item.Name,
			DueDate:  item.DueDate,
			Progress: plan.Progress(item),
		}
		for _, t := range plan.SortedTasks(item) {
			out.Tasks = append(out.Tasks, jsonTask{
				ID:     t.ID,
				Date:   t.Date,
				Topic:  t.Topic,
				Status: t.Status.String(),
			})
		}
		export.Items = append(export.Items, out)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
