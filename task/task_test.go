package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Transition_Allowed(t *testing.T) {
	tk := New("a", "desc", nil, 0)
	require.Equal(t, StatusPending, tk.Status)

	require.NoError(t, tk.Transition(StatusRunning))
	require.NoError(t, tk.Transition(StatusCompleted))
}

func Test_Transition_Disallowed(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"pending to completed", StatusPending, StatusCompleted},
		{"pending to failed", StatusPending, StatusFailed},
		{"running to skipped", StatusRunning, StatusSkipped},
		{"completed is terminal", StatusCompleted, StatusRunning},
		{"failed is terminal", StatusFailed, StatusRunning},
		{"skipped is terminal", StatusSkipped, StatusRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := New("a", "desc", nil, 0)
			tk.Status = tt.from
			require.Error(t, tk.Transition(tt.to))
			require.Equal(t, tt.from, tk.Status)
		})
	}
}

func Test_Transition_Skip(t *testing.T) {
	tk := New("a", "desc", nil, 0)
	require.NoError(t, tk.Transition(StatusSkipped))
}

func Test_IsTerminal(t *testing.T) {
	require.False(t, IsTerminal(StatusPending))
	require.False(t, IsTerminal(StatusRunning))
	require.True(t, IsTerminal(StatusCompleted))
	require.True(t, IsTerminal(StatusFailed))
	require.True(t, IsTerminal(StatusSkipped))
}

func Test_Duration(t *testing.T) {
	tk := New("a", "desc", nil, 0)
	require.Equal(t, time.Duration(0), tk.Duration())

	tk.StartedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Duration(0), tk.Duration())

	tk.FinishedAt = tk.StartedAt.Add(42 * time.Millisecond)
	require.Equal(t, 42*time.Millisecond, tk.Duration())
}
