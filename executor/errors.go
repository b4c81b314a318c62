package executor

import (
	"fmt"
	"strings"
)

// DuplicateTaskError is returned by AddTask when the id is already registered.
type DuplicateTaskError struct {
	ID string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q already registered", e.ID)
}

// TaskFailedError is returned by Run when a runner fails. The failure is
// recorded on the task before the run is aborted.
type TaskFailedError struct {
	ID  string
	Err error
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.ID, e.Err)
}

func (e *TaskFailedError) Unwrap() error {
	return e.Err
}

// StuckCause classifies why a pending task can never become ready.
type StuckCause string

const (
	// CauseFailedDependency means the task depends, directly or transitively,
	// on a task that ended up Failed.
	CauseFailedDependency StuckCause = "failed-dependency"

	// CauseCycle means the task participates in a dependency cycle, depends
	// on one, or depends on a task that was never registered.
	CauseCycle StuckCause = "cycle"
)

// StuckTask names one task that can never run and why.
type StuckTask struct {
	ID    string
	Cause StuckCause
}

// DeadlockError is returned by Run when no task is ready but some remain
// pending. Stuck is ordered by task declaration order.
type DeadlockError struct {
	Stuck []StuckTask
}

func (e *DeadlockError) Error() string {
	parts := make([]string, len(e.Stuck))
	for i, s := range e.Stuck {
		parts[i] = fmt.Sprintf("%s (%s)", s.ID, s.Cause)
	}
	return fmt.Sprintf("task graph is stuck: %s", strings.Join(parts, ", "))
}

// StuckIDs returns the ids of all stuck tasks in declaration order.
func (e *DeadlockError) StuckIDs() []string {
	ids := make([]string, len(e.Stuck))
	for i, s := range e.Stuck {
		ids[i] = s.ID
	}
	return ids
}
