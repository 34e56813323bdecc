package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

// ToCSV writes one row per task, flattened with its owning item.
func ToCSV(items []plan.Item, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Item", "Category", "Due", "Progress", "Task Date", "Topic", "Status"}); err != nil {
		return err
	}

	for _, item := range items {
		progress := fmt.Sprintf("%d%%", plan.Progress(item))
		if len(item.Tasks) == 0 {
			row := []string{item.Name, string(item.Category), item.DueDate, progress, "", "", ""}
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, t := range plan.SortedTasks(item) {
			row := []string{
				item.Name,
				string(item.Category),
				item.DueDate,
				progress,
				t.Date,
				t.Topic,
				t.Status.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
