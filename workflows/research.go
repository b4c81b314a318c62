package workflows

import (
	"context"
	"fmt"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/executor"
	"github.com/contail/strands-agents-starter/task"
)

// Task ids of the research workflow.
const (
	TaskResearcher = "researcher"
	TaskAnalyst    = "analyst"
	TaskWriter     = "writer"
)

// Research is the three-phase research workflow: a researcher gathers
// findings, an analyst verifies them, a writer produces the final report.
// Each run assembles a fresh task graph and hands it to the executor.
type Research struct {
	runner agent.Runner
	opts   []executor.Option
}

func NewResearch(runner agent.Runner, opts ...executor.Option) *Research {
	return &Research{
		runner: runner,
		opts:   opts,
	}
}

// Run executes the workflow for the query and returns the writer's report
// along with the final run status.
func (w *Research) Run(ctx context.Context, query string) (string, *executor.RunStatus, error) {
	e := executor.New(append(w.opts, executor.WithDefaultRunner(w.runner))...)

	tasks := []*task.Task{
		task.New(TaskResearcher, agent.BuildPrompt([]agent.Message{
			agent.System(researcherPrompt),
			agent.User(fmt.Sprintf("Research: '%s'. Gather information from reliable sources.", query)),
		}), nil, 3),
		task.New(TaskAnalyst, agent.BuildPrompt([]agent.Message{
			agent.System(analystPrompt),
			agent.User(fmt.Sprintf("Analyze the findings above about '%s'.", query)),
		}), []string{TaskResearcher}, 2),
		task.New(TaskWriter, agent.BuildPrompt([]agent.Message{
			agent.System(writerPrompt),
			agent.User(fmt.Sprintf("Create a report on '%s' based on the analysis above.", query)),
		}), []string{TaskAnalyst}, 1),
	}

	for _, t := range tasks {
		if err := e.AddTask(t); err != nil {
			return "", nil, err
		}
	}

	status, err := e.Run(ctx)
	if err != nil {
		return "", status, err
	}

	report, _ := e.Result(TaskWriter)
	return report, status, nil
}
