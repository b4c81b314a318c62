package agent

import (
	"context"
)

// Service is a stateless single-step agent: it flattens messages into a
// prompt and hands it to the bound runner. For multi-step work, assemble a
// task graph instead.
type Service struct {
	runner Runner
}

func NewService(runner Runner) *Service {
	return &Service{runner: runner}
}

func (s *Service) Run(ctx context.Context, messages []Message) (string, error) {
	return s.runner.Invoke(ctx, BuildPrompt(messages))
}
