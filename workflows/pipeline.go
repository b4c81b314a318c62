package workflows

import (
	"context"
	"fmt"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/executor"
	"github.com/contail/strands-agents-starter/task"
)

// Task ids of the pipeline workflow.
const (
	TaskBrief    = "brief"
	TaskCritique = "critique"
	TaskFinalize = "finalize"
)

// Pipeline is the minimal three-phase workflow over a topic: a research
// brief, a critical review, and concrete action steps built from both.
type Pipeline struct {
	runner agent.Runner
	opts   []executor.Option
}

func NewPipeline(runner agent.Runner, opts ...executor.Option) *Pipeline {
	return &Pipeline{
		runner: runner,
		opts:   opts,
	}
}

// Run executes the workflow for the topic and returns the final action
// steps along with the final run status.
func (w *Pipeline) Run(ctx context.Context, topic string) (string, *executor.RunStatus, error) {
	e := executor.New(append(w.opts, executor.WithDefaultRunner(w.runner))...)

	tasks := []*task.Task{
		task.New(TaskBrief, agent.BuildPrompt([]agent.Message{
			agent.System(briefPrompt),
			agent.User(fmt.Sprintf("Create a concise research brief with 3 bullet points about: %s", topic)),
		}), nil, 3),
		task.New(TaskCritique, agent.BuildPrompt([]agent.Message{
			agent.System(critiquePrompt),
			agent.User("Review the brief above and list 3 risks or gaps."),
		}), []string{TaskBrief}, 2),
		task.New(TaskFinalize, agent.BuildPrompt([]agent.Message{
			agent.System(finalizerPrompt),
			agent.User("Using the brief and critique above, provide 5 concrete, actionable steps."),
		}), []string{TaskBrief, TaskCritique}, 1),
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

	steps, _ := e.Result(TaskFinalize)
	return steps, status, nil
}
