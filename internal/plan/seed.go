package plan

import "github.com/google/uuid"

// Seed returns the starter items shown to a user with no saved data.
// Load failures fall back to these as well, so the planner is usable
// before the first successful sync.
func Seed() []Item {
	today := Today()
	return []Item{
		{
			ID:         uuid.NewString(),
			Category:   CategoryExam,
			Name:       "Exam 1",
			ColorIndex: 0,
			DueDate:    AddDays(today, 14),
			Tasks: []Task{
				{ID: uuid.NewString(), Date: today, Topic: "Review lecture notes", Status: StatusNotStarted},
				{ID: uuid.NewString(), Date: AddDays(today, 3), Topic: "Past paper practice", Status: StatusNotStarted},
			},
		},
		{
			ID:         uuid.NewString(),
			Category:   CategoryProject,
			Name:       "Project 1",
			ColorIndex: 1,
			DueDate:    AddDays(today, 14),
			Tasks: []Task{
				{ID: uuid.NewString(), Date: today, Topic: "Outline deliverables", Status: StatusNotStarted},
			},
		},
		{
			ID:         uuid.NewString(),
			Category:   CategoryDaily,
			Name:       "Daily 1",
			ColorIndex: 2,
			DueDate:    today,
			Tasks: []Task{
				{ID: uuid.NewString(), Date: today, Topic: "Plan today's sessions", Status: StatusNotStarted},
			},
		},
	}
}
