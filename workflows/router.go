package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/log"
)

// Specialist is one subject-matter agent the router can dispatch to.
type Specialist struct {
	Key          string
	Name         string
	SystemPrompt string
}

// Router is the teacher's assistant: it asks the model which specialist
// should handle a query, matches the answer against the known specialists,
// and dispatches to the winner. Unrecognized answers go to the general
// assistant.
type Router struct {
	runner      agent.Runner
	logger      *slog.Logger
	specialists []Specialist
}

func NewRouter(runner agent.Runner, logger *slog.Logger) *Router {
	return &Router{
		runner: runner,
		logger: logger,
		specialists: []Specialist{
			{Key: "math", Name: "Math Assistant", SystemPrompt: mathPrompt},
			{Key: "english", Name: "English Assistant", SystemPrompt: englishPrompt},
			{Key: "language", Name: "Language Assistant", SystemPrompt: languagePrompt},
			{Key: "cs", Name: "Computer Science Assistant", SystemPrompt: csPrompt},
			{Key: "general", Name: "General Assistant", SystemPrompt: generalPrompt},
		},
	}
}

// Process routes the query to a specialist and returns its response.
func (r *Router) Process(ctx context.Context, query string) (string, error) {
	routing, err := r.runner.Invoke(ctx, agent.BuildPrompt([]agent.Message{
		agent.System(routerPrompt),
		agent.User(fmt.Sprintf("Analyze this query and determine which assistant should handle it: '%s'", query)),
	}))
	if err != nil {
		return "", fmt.Errorf("routing query: %w", err)
	}

	specialist := r.match(routing)
	r.logger.Debug("routed query", slog.String(log.WorkflowKey, specialist.Name))

	response, err := r.runner.Invoke(ctx, agent.BuildPrompt([]agent.Message{
		agent.System(specialist.SystemPrompt),
		agent.User(query),
	}))
	if err != nil {
		return "", fmt.Errorf("processing query with %s: %w", specialist.Name, err)
	}

	return response, nil
}

// match picks a specialist from the routing response by keyword. The
// response must mention both the subject and "assistant" to count, matching
// the phrasing the routing prompt asks for.
func (r *Router) match(routing string) Specialist {
	lower := strings.ToLower(routing)

	if strings.Contains(lower, "assistant") {
		for _, s := range r.specialists {
			switch s.Key {
			case "cs":
				if strings.Contains(lower, "computer") || strings.Contains(lower, "cs") {
					return s
				}
			case "general":
				// Fallthrough default below.
			default:
				if strings.Contains(lower, s.Key) {
					return s
				}
			}
		}
	}

	return r.specialists[len(r.specialists)-1]
}
