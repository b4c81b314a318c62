package executor

import (
	"time"

	"github.com/contail/strands-agents-starter/task"
)

// TaskStatus is the externally visible state of one task.
type TaskStatus struct {
	ID           string        `json:"id"`
	Status       task.Status   `json:"status"`
	Dependencies []string      `json:"dependencies,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// RunStatus is a point-in-time snapshot of a run. It can be taken before,
// during, or after Run.
type RunStatus struct {
	RunID string `json:"run_id"`

	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Failed    int     `json:"failed"`
	Progress  float64 `json:"progress"`

	// Tasks is ordered by task declaration order.
	Tasks []TaskStatus `json:"tasks"`

	StartedAt  time.Time     `json:"started_at,omitzero"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Task returns the status entry for the given id, or nil.
func (rs *RunStatus) Task(id string) *TaskStatus {
	for i := range rs.Tasks {
		if rs.Tasks[i].ID == id {
			return &rs.Tasks[i]
		}
	}
	return nil
}
