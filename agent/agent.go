package agent

import (
	"context"
	"fmt"
	"strings"
)

// Runner is the capability that performs the actual work of a task: it takes
// a fully resolved prompt and returns the generated text. Implementations may
// block; cancellation and timeouts are their responsibility.
type Runner interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, prompt string) (string, error)

func (f RunnerFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Message is a single role-tagged message in an agent conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System and User are shorthands for the two roles the starter kit uses.
func System(content string) Message {
	return Message{Role: "system", Content: content}
}

func User(content string) Message {
	return Message{Role: "user", Content: content}
}

// BuildPrompt flattens a message list into the `[role] content` transcript
// format the generate endpoint expects, with a trailing assistant cue.
func BuildPrompt(messages []Message) string {
	var sb strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&sb, "[%s] %s\n", m.Role, m.Content)
	}
	sb.WriteString("[assistant] Provide a concise answer.")
	return sb.String()
}
