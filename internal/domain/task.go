package domain

import "time"

// TaskStatus enumerates render task lifecycle states.
type TaskStatus string

const (
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusFinished TaskStatus = "finished"
	TaskStatusError    TaskStatus = "error"
)

// Terminal reports whether no further updates are expected for the task.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusFinished || s == TaskStatusError
}

// TaskResult holds the output location of a finished render.
type TaskResult struct {
	VideoKey string `json:"videoKey,omitempty"`
}

// VideoName returns the file name segment of the video key
// ("<bucket>/<project>/<name>" on the backend).
func (r *TaskResult) VideoName() string {
	if r == nil || r.VideoKey == "" {
		return ""
	}
	key := r.VideoKey
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}

// Task is a slideshow render job as reported by the backend.
type Task struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectId,omitempty"`
	Status    TaskStatus  `json:"status"`
	Error     *string     `json:"error"`
	Result    *TaskResult `json:"result,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
