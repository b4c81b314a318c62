package session

import (
	"fmt"
	"sort"
	"strings"
)

// State is a named session with a free-form property bag, used to thread
// lightweight context into single-step agent calls.
type State struct {
	Name       string
	Properties map[string]any
}

func New(name string) *State {
	return &State{
		Name:       name,
		Properties: map[string]any{},
	}
}

// Update merges the given changes into the property bag.
func (s *State) Update(changes map[string]any) {
	for k, v := range changes {
		s.Properties[k] = v
	}
}

// Snapshot renders the session as a deterministic single-line summary
// suitable for embedding in a prompt.
func (s *State) Snapshot() string {
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "name=%s", s.Name)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, s.Properties[k])
	}
	return sb.String()
}
