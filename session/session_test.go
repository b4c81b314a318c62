package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Snapshot_Deterministic(t *testing.T) {
	s := New("demo")
	s.Update(map[string]any{"b": 2, "a": 1, "c": "x"})

	require.Equal(t, "name=demo a=1 b=2 c=x", s.Snapshot())
	require.Equal(t, s.Snapshot(), s.Snapshot())
}

func Test_Update_Merges(t *testing.T) {
	s := New("demo")
	s.Update(map[string]any{"a": 1})
	s.Update(map[string]any{"a": 2, "b": 3})

	require.Equal(t, "name=demo a=2 b=3", s.Snapshot())
}
