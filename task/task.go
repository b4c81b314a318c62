package task

import (
	"fmt"
	"time"

	"github.com/contail/strands-agents-starter/agent"
)

// Task is one unit of work in a graph. The Description is the prompt payload
// handed to the runner; Dependencies name tasks whose results are prepended
// as context before this task may start.
type Task struct {
	ID           string
	Description  string
	Dependencies []string
	Priority     int

	// Runner performs the work for this task. When nil, the executor's
	// default runner is used.
	Runner agent.Runner

	Status     Status
	Result     string
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

// New creates a pending task.
func New(id, description string, dependencies []string, priority int) *Task {
	return &Task{
		ID:           id,
		Description:  description,
		Dependencies: dependencies,
		Priority:     priority,
		Status:       StatusPending,
	}
}

// WithRunner binds a runner to the task and returns it for chaining.
func (t *Task) WithRunner(r agent.Runner) *Task {
	t.Runner = r
	return t
}

// Transition moves the task to the given status, validating it against the
// allowed state machine. The current status is the expected prior state.
func (t *Task) Transition(to Status) error {
	if !allowedTransition(t.Status, to) {
		return fmt.Errorf("disallowed transition for %q: %s -> %s", t.ID, t.Status, to)
	}
	t.Status = to
	return nil
}

// Duration is the wall time between start and finish, zero until both are set.
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.FinishedAt.IsZero() {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}
