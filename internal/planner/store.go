// Package planner holds the authoritative in-memory item list for one
// user session and writes it through a persistence backend. Mutations are
// coalesced: each one cancels the pending debounce timer and schedules a
// new write, so a burst of edits costs a single save.
package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mahamantras2024-ux/Study-planner/internal/persist"
	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// DefaultDebounce is the quiet period after the last mutation before the
// item list is written out.
const DefaultDebounce = 450 * time.Millisecond

// SyncStatus reports the outcome of the most recent persistence attempt.
// Failures never roll back memory; the in-memory list stays authoritative
// and the error is surfaced here for the view layer.
type SyncStatus struct {
	Err       string
	LastSaved time.Time
}

// ItemPatch carries the mutable item fields for UpdateItem. Nil fields
// are left untouched.
type ItemPatch struct {
	Name       *string
	ColorIndex *int
	DueDate    *string
}

type Store struct {
	mu      sync.Mutex
	backend persist.Backend
	user    string

	items []plan.Item
	dirty bool

	delay     time.Duration
	saveTimer *time.Timer

	status SyncStatus
	onSync []func(SyncStatus)
}

// Open loads the user's items from the backend. A failing load falls back
// to the seeded defaults and records the error as the sync status; the
// store is always usable.
func Open(backend persist.Backend, user string) *Store {
	s := &Store{
		backend: backend,
		user:    user,
		delay:   DefaultDebounce,
	}

	items, err := backend.LoadItems(user)
	if err != nil {
		s.items = plan.Seed()
		s.status.Err = err.Error()
	} else {
		s.items = items
	}
	return s
}

// SetDebounce overrides the write delay, for tests.
func (s *Store) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Close cancels the pending debounce write and flushes any unsaved
// mutations synchronously.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if dirty {
		s.flush()
	}
	return nil
}

// Items returns a deep copy of the current item list.
func (s *Store) Items() []plan.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return plan.CloneItems(s.items)
}

// Item returns a copy of one item by id.
func (s *Store) Item(id string) (plan.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			copied := item
			copied.Tasks = append([]plan.Task(nil), item.Tasks...)
			return copied, true
		}
	}
	return plan.Item{}, false
}

// Status returns the latest sync status.
func (s *Store) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnSync subscribes to sync status changes. Callbacks run outside the
// store lock, on the goroutine that produced the change.
func (s *Store) OnSync(fn func(SyncStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSync = append(s.onSync, fn)
}

// CreateItem appends a fresh item: generated id, name numbered within the
// category, rotating palette index, due date offset per category, no tasks.
func (s *Store) CreateItem(category plan.Category) plan.Item {
	s.mu.Lock()

	count := 0
	for _, item := range s.items {
		if item.Category == category {
			count++
		}
	}

	item := plan.Item{
		ID:         uuid.NewString(),
		Category:   category,
		Name:       fmt.Sprintf("%s %d", category.Title(), count+1),
		ColorIndex: len(s.items) % len(plan.Palette),
		DueDate:    plan.AddDays(plan.Today(), category.DueOffsetDays()),
		Tasks:      []plan.Task{},
	}
	s.items = append(s.items, item)
	s.markDirtyLocked()
	s.mu.Unlock()

	return item
}

// UpdateItem merges patch fields into the matching item. An unknown id is
// a silent no-op.
func (s *Store) UpdateItem(id string, patch ItemPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}
	if patch.Name != nil {
		s.items[idx].Name = *patch.Name
	}
	if patch.ColorIndex != nil {
		s.items[idx].ColorIndex = *patch.ColorIndex
	}
	if patch.DueDate != nil {
		s.items[idx].DueDate = *patch.DueDate
	}
	s.markDirtyLocked()
}

// RemoveItem deletes an item and, with it, all of its tasks.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.markDirtyLocked()
}

// AddTask appends a new task dated today with a placeholder topic.
func (s *Store) AddTask(itemID string) (plan.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(itemID)
	if idx < 0 {
		return plan.Task{}, false
	}

	task := plan.Task{
		ID:     uuid.NewString(),
		Date:   plan.Today(),
		Topic:  "New task",
		Status: plan.StatusNotStarted,
	}
	s.items[idx].Tasks = append(s.items[idx].Tasks, task)
	s.markDirtyLocked()
	return task, true
}

// RemoveTask deletes a task from its item; no-op when either id is unknown.
func (s *Store) RemoveTask(itemID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(itemID)
	if idx < 0 {
		return
	}
	tasks := s.items[idx].Tasks
	for i, t := range tasks {
		if t.ID == taskID {
			s.items[idx].Tasks = append(tasks[:i], tasks[i+1:]...)
			s.markDirtyLocked()
			return
		}
	}
}

// SetTaskStatus sets an explicit status (direct selection).
func (s *Store) SetTaskStatus(itemID, taskID string, status plan.Status) {
	s.withTask(itemID, taskID, func(t *plan.Task) {
		t.Status = status
	})
}

// CycleTaskStatus advances the status along the fixed cycle.
func (s *Store) CycleTaskStatus(itemID, taskID string) {
	s.withTask(itemID, taskID, func(t *plan.Task) {
		t.Status = t.Status.Next()
	})
}

// SetTaskTopic updates a task's description.
func (s *Store) SetTaskTopic(itemID, taskID, topic string) {
	s.withTask(itemID, taskID, func(t *plan.Task) {
		t.Topic = topic
	})
}

// SetTaskDate moves a task to another calendar date.
func (s *Store) SetTaskDate(itemID, taskID, date string) {
	s.withTask(itemID, taskID, func(t *plan.Task) {
		t.Date = date
	})
}

// TasksDueToday returns all tasks across items dated today.
func (s *Store) TasksDueToday() []plan.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := plan.Today()
	var due []plan.Task
	for _, item := range s.items {
		due = append(due, plan.TasksDueOn(item, today)...)
	}
	return due
}

// LoadTimer reads the persisted timer state for this store's user.
func (s *Store) LoadTimer() (timer.State, error) {
	return s.backend.LoadTimer(s.user)
}

// SaveTimer persists the timer state immediately; timer transitions are
// rare enough that they skip the debounce.
func (s *Store) SaveTimer(state timer.State) error {
	return s.backend.SaveTimer(s.user, state)
}

// Flush forces the pending write out now.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.mu.Unlock()
	s.flush()
}

func (s *Store) withTask(itemID, taskID string, mutate func(*plan.Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(itemID)
	if idx < 0 {
		return
	}
	for i := range s.items[idx].Tasks {
		if s.items[idx].Tasks[i].ID == taskID {
			mutate(&s.items[idx].Tasks[i])
			s.markDirtyLocked()
			return
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// markDirtyLocked reschedules the debounced write: the previous timer is
// cancelled and a fresh one armed, so only the last mutation in a burst
// fires a save.
func (s *Store) markDirtyLocked() {
	s.dirty = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.delay, s.flush)
}

func (s *Store) flush() {
	s.mu.Lock()
	items := plan.CloneItems(s.items)
	user := s.user
	s.mu.Unlock()

	err := s.backend.SaveItems(user, items)

	s.mu.Lock()
	if err != nil {
		// Memory stays authoritative; the next mutation's debounce
		// cycle is the retry.
		s.status.Err = err.Error()
	} else {
		s.dirty = false
		s.status.Err = ""
		s.status.LastSaved = time.Now()
	}
	status := s.status
	handlers := append([]func(SyncStatus){}, s.onSync...)
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(status)
	}
}
