package feed

import (
	"sync"

	"slidecast/internal/domain"
)

// TaskBoard is the live list of render tasks. An update replaces the task
// with the same id in place; unknown ids are appended.
type TaskBoard struct {
	mu    sync.RWMutex
	tasks []domain.Task
	index map[string]int
}

// NewTaskBoard returns an empty board.
func NewTaskBoard() *TaskBoard {
	return &TaskBoard{index: make(map[string]int)}
}

// Upsert applies one update.
func (b *TaskBoard) Upsert(t domain.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upsertLocked(t)
}

func (b *TaskBoard) upsertLocked(t domain.Task) {
	if i, ok := b.index[t.ID]; ok {
		b.tasks[i] = t
		return
	}
	b.index[t.ID] = len(b.tasks)
	b.tasks = append(b.tasks, t)
}

// Replace swaps the board contents, as on the initial load.
func (b *TaskBoard) Replace(tasks []domain.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = b.tasks[:0:0]
	b.index = make(map[string]int, len(tasks))
	for _, t := range tasks {
		b.upsertLocked(t)
	}
}

// Get returns the task with id.
func (b *TaskBoard) Get(id string) (domain.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.index[id]
	if !ok {
		return domain.Task{}, false
	}
	return b.tasks[i], true
}

// All returns every task in arrival order.
func (b *TaskBoard) All() []domain.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Task(nil), b.tasks...)
}

// ForProject returns the tasks of one project in arrival order.
func (b *TaskBoard) ForProject(projectID string) []domain.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Task{}
	for _, t := range b.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// ProjectOf resolves the project a task belongs to.
func (b *TaskBoard) ProjectOf(taskID string) (string, bool) {
	t, ok := b.Get(taskID)
	if !ok || t.ProjectID == "" {
		return "", false
	}
	return t.ProjectID, true
}

// Len returns the number of tasks.
func (b *TaskBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tasks)
}
