package executor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/log"
	"github.com/contail/strands-agents-starter/metrics"
	"github.com/contail/strands-agents-starter/task"
)

const TracerName = "agents"

// Executor drives a set of declared tasks to completion respecting
// dependency order and priority. Execution is strictly sequential: one task
// at a time, chosen deterministically, so repeated runs with the same task
// set and runner outputs produce the same execution order.
//
// The first runner failure aborts the whole run after being recorded on the
// failed task. Unattempted tasks stay pending; there are no retries here.
type Executor struct {
	options Options
	tracer  trace.Tracer

	mu         sync.Mutex
	runID      string
	tasks      map[string]*task.Task
	order      []string
	results    map[string]string
	startedAt  time.Time
	finishedAt time.Time
	running    bool
}

func New(opts ...Option) *Executor {
	options := applyOptions(opts...)

	return &Executor{
		options: options,
		tracer:  options.TracerProvider.Tracer(TracerName),
		tasks:   map[string]*task.Task{},
		results: map[string]string{},
	}
}

// AddTask registers a task. Dependencies are not validated here; forward
// references are fine and unresolvable graphs surface at run time.
func (e *Executor) AddTask(t *task.Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return fmt.Errorf("cannot add task %q: run in progress", t.ID)
	}

	if _, ok := e.tasks[t.ID]; ok {
		return &DuplicateTaskError{ID: t.ID}
	}

	if t.Status == "" {
		t.Status = task.StatusPending
	}

	e.tasks[t.ID] = t
	e.order = append(e.order, t.ID)

	return nil
}

// Run executes the whole graph to completion. It returns the final status
// snapshot in all cases; the error is a *TaskFailedError when a runner
// failed and a *DeadlockError when no progress was possible.
func (e *Executor) Run(ctx context.Context) (*RunStatus, error) {
	e.mu.Lock()
	if e.running || !e.finishedAt.IsZero() {
		e.mu.Unlock()
		return nil, fmt.Errorf("run already started")
	}
	e.running = true
	e.runID = uuid.NewString()
	e.startedAt = e.options.Clock.Now()
	total := len(e.order)
	e.mu.Unlock()

	logger := e.options.Logger.With(slog.String(log.RunIDKey, e.runID))
	logger.Debug("starting run", "tasks", total)

	ctx, span := e.tracer.Start(ctx, "RunTaskGraph", trace.WithAttributes(
		attribute.String(log.RunIDKey, e.runID),
		attribute.Int("agents.task.count", total),
	))
	defer span.End()

	timer := metrics.Timer(e.options.Metrics, metrics.RunDuration, metrics.Tags{})

	err := e.runLoop(ctx, logger)

	e.mu.Lock()
	e.finishedAt = e.options.Clock.Now()
	e.running = false
	e.mu.Unlock()

	timer.Stop()

	outcome := "completed"
	if err != nil {
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("run failed", "error", err)
	} else {
		logger.Debug("run completed")
	}
	e.options.Metrics.Counter(metrics.RunCompleted, metrics.Tags{metrics.Outcome: outcome}, 1)

	return e.Status(), err
}

// runLoop recomputes the ready set fresh on every iteration and executes its
// highest-priority task, so a failure is observed before any later selection.
func (e *Executor) runLoop(ctx context.Context, logger *slog.Logger) error {
	for {
		e.mu.Lock()
		ready := e.readyLocked()
		if len(ready) == 0 {
			stuck := e.stuckLocked()
			e.mu.Unlock()

			if len(stuck) == 0 {
				return nil
			}

			err := &DeadlockError{Stuck: stuck}
			logger.Error("no task is ready", slog.Any(log.StuckKey, err.StuckIDs()))
			return err
		}

		next := ready[0]
		prompt := e.resolvePromptLocked(next)
		next.StartedAt = e.options.Clock.Now()
		if terr := next.Transition(task.StatusRunning); terr != nil {
			e.mu.Unlock()
			return terr
		}
		e.mu.Unlock()

		logger.Debug("executing task",
			slog.String(log.TaskIDKey, next.ID),
			slog.Int(log.PriorityKey, next.Priority),
			slog.Int(log.PromptLenKey, len(prompt)))

		result, err := e.invoke(ctx, next, prompt)

		e.mu.Lock()
		next.FinishedAt = e.options.Clock.Now()

		if err != nil {
			next.Err = err.Error()
			if terr := next.Transition(task.StatusFailed); terr != nil {
				e.mu.Unlock()
				return terr
			}
			e.mu.Unlock()

			e.options.Metrics.Counter(metrics.TaskExecuted, metrics.Tags{metrics.Outcome: "failed"}, 1)

			fields := []any{
				slog.String(log.TaskIDKey, next.ID),
				slog.String(log.TaskStatusKey, string(task.StatusFailed)),
				slog.Int64(log.DurationKey, next.Duration().Milliseconds()),
				"error", err,
			}
			if gerr, ok := err.(*goerrors.Error); ok {
				fields = append(fields, "stack", gerr.ErrorStack())
			}
			logger.Error("task failed", fields...)

			return &TaskFailedError{ID: next.ID, Err: err}
		}

		next.Result = result
		e.results[next.ID] = result
		if terr := next.Transition(task.StatusCompleted); terr != nil {
			e.mu.Unlock()
			return terr
		}
		e.mu.Unlock()

		e.options.Metrics.Counter(metrics.TaskExecuted, metrics.Tags{metrics.Outcome: "completed"}, 1)

		logger.Debug("task completed",
			slog.String(log.TaskIDKey, next.ID),
			slog.String(log.TaskStatusKey, string(task.StatusCompleted)),
			slog.Int64(log.DurationKey, next.Duration().Milliseconds()),
			slog.Int(log.ResponseLenKey, len(result)))
	}
}

// invoke runs a single task's runner. Panics are recovered and surfaced as
// failures carrying the runner's stacktrace.
func (e *Executor) invoke(ctx context.Context, t *task.Task, prompt string) (result string, err error) {
	ctx, span := e.tracer.Start(ctx, fmt.Sprintf("ExecuteTask: %s", t.ID), trace.WithAttributes(
		attribute.String(log.TaskIDKey, t.ID),
		attribute.Int(log.PriorityKey, t.Priority),
	))

	timer := metrics.Timer(e.options.Metrics, metrics.TaskDuration, metrics.Tags{log.TaskIDKey: t.ID})

	defer func() {
		if r := recover(); r != nil {
			err = goerrors.Wrap(fmt.Errorf("runner panicked: %v", r), 2)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		timer.Stop()
		span.End()
	}()

	runner := t.Runner
	if runner == nil {
		runner = e.options.DefaultRunner
	}
	if runner == nil {
		return "", fmt.Errorf("no runner bound for task %q", t.ID)
	}

	return runner.Invoke(ctx, prompt)
}

// readyLocked returns all pending tasks whose dependencies are completed,
// ordered by priority descending, declaration order ascending.
func (e *Executor) readyLocked() []*task.Task {
	var ready []*task.Task
	for _, id := range e.order {
		t := e.tasks[id]
		if t.Status != task.StatusPending {
			continue
		}

		depsOK := true
		for _, dep := range t.Dependencies {
			d, ok := e.tasks[dep]
			if !ok || d.Status != task.StatusCompleted {
				depsOK = false
				break
			}
		}
		if depsOK {
			ready = append(ready, t)
		}
	}

	// Stable sort keeps declaration order for equal priorities.
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority > ready[j].Priority
	})

	return ready
}

// stuckLocked classifies every still-pending task. Called when the ready set
// is empty; a non-empty result means the graph can make no further progress.
func (e *Executor) stuckLocked() []StuckTask {
	var stuck []StuckTask
	for _, id := range e.order {
		t := e.tasks[id]
		if t.Status != task.StatusPending {
			continue
		}
		stuck = append(stuck, StuckTask{ID: id, Cause: e.stuckCauseLocked(id)})
	}
	return stuck
}

// stuckCauseLocked walks the dependency closure of the given task. Reaching
// a failed task explains the blockage; otherwise the task sits in or behind
// a cycle (or names a dependency that was never registered).
func (e *Executor) stuckCauseLocked(id string) StuckCause {
	seen := map[string]bool{id: true}
	queue := slices.Clone(e.tasks[id].Dependencies)

	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		if seen[dep] {
			continue
		}
		seen[dep] = true

		d, ok := e.tasks[dep]
		if !ok {
			continue
		}
		if d.Status == task.StatusFailed {
			return CauseFailedDependency
		}
		queue = append(queue, d.Dependencies...)
	}

	return CauseCycle
}

// resolvePromptLocked builds the prompt for a task: each dependency's result
// as labeled context, in dependency declaration order, then the task's own
// description.
func (e *Executor) resolvePromptLocked(t *task.Task) string {
	if len(t.Dependencies) == 0 {
		return t.Description
	}

	var sb strings.Builder
	for _, dep := range t.Dependencies {
		fmt.Fprintf(&sb, "[%s] %s\n", dep, e.results[dep])
	}
	sb.WriteString("\n")
	sb.WriteString(t.Description)
	return sb.String()
}

// Status returns a point-in-time snapshot of the run.
func (e *Executor) Status() *RunStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	rs := &RunStatus{
		RunID:      e.runID,
		Total:      len(e.order),
		StartedAt:  e.startedAt,
		FinishedAt: e.finishedAt,
	}

	for _, id := range e.order {
		t := e.tasks[id]

		switch t.Status {
		case task.StatusCompleted:
			rs.Completed++
		case task.StatusFailed:
			rs.Failed++
		}

		rs.Tasks = append(rs.Tasks, TaskStatus{
			ID:           t.ID,
			Status:       t.Status,
			Dependencies: slices.Clone(t.Dependencies),
			Duration:     t.Duration(),
			Error:        t.Err,
		})
	}

	if rs.Total > 0 {
		rs.Progress = float64(rs.Completed) / float64(rs.Total)
	}

	if !rs.StartedAt.IsZero() && !rs.FinishedAt.IsZero() {
		rs.Duration = rs.FinishedAt.Sub(rs.StartedAt)
	}

	return rs
}

// Results returns a copy of the completed-task output map.
func (e *Executor) Results() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	results := make(map[string]string, len(e.results))
	for k, v := range e.results {
		results[k] = v
	}
	return results
}

// Result returns the output of a completed task.
func (e *Executor) Result(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.results[id]
	return r, ok
}
