package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

func sampleItems() []plan.Item {
	return []plan.Item{
		{
			ID:       "i1",
			Category: plan.CategoryExam,
			Name:     "Algebra",
			DueDate:  "2026-09-10",
			Tasks: []plan.Task{
				{ID: "t2", Date: "2026-09-02", Topic: "chapter 2", Status: plan.StatusNotStarted},
				{ID: "t1", Date: "2026-09-01", Topic: "chapter 1", Status: plan.StatusDone},
			},
		},
		{
			ID:       "i2",
			Category: plan.CategoryDaily,
			Name:     "Daily 1",
			DueDate:  "2026-08-24",
			// no tasks
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleItems(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 task rows + 1 empty-item row
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"Item", "Category", "Due", "Progress", "Task Date", "Topic", "Status"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	// Tasks come out date-sorted: t1 before t2.
	row := records[1]
	if row[0] != "Algebra" || row[4] != "2026-09-01" || row[5] != "chapter 1" {
		t.Fatalf("unexpected first task row: %v", row)
	}
	if row[3] != "50%" {
		t.Fatalf("expected 50%% progress, got %q", row[3])
	}
	if row[6] != "done" {
		t.Fatalf("expected done status, got %q", row[6])
	}

	// An item without tasks still gets one row.
	empty := records[3]
	if empty[0] != "Daily 1" || empty[4] != "" || empty[5] != "" {
		t.Fatalf("unexpected empty-item row: %v", empty)
	}
	if empty[3] != "0%" {
		t.Fatalf("expected 0%% progress for empty item, got %q", empty[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	items := []plan.Item{{
		ID:       "i1",
		Category: plan.CategoryProject,
		Name:     `Project "Special"`,
		Tasks: []plan.Task{
			{ID: "t1", Date: "2026-08-24", Topic: `topic with "quotes" and, commas`},
		},
	}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(items, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should stay valid with special chars: %v", err)
	}
	if records[1][0] != `Project "Special"` {
		t.Fatalf("item name mangled: %q", records[1][0])
	}
	if records[1][5] != `topic with "quotes" and, commas` {
		t.Fatalf("topic mangled: %q", records[1][5])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleItems(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not RFC3339: %q", result.ExportedAt)
	}

	item := result.Items[0]
	if item.Name != "Algebra" || item.Category != "exam" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Progress != 50 {
		t.Fatalf("progress = %d, want 50", item.Progress)
	}
	if len(item.Tasks) != 2 || item.Tasks[0].Date != "2026-09-01" {
		t.Fatalf("tasks should be date-sorted: %+v", item.Tasks)
	}
	if item.Tasks[0].Status != "done" {
		t.Fatalf("status = %q, want done", item.Tasks[0].Status)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(sampleItems(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
