package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariables(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *Store){
		"set get":               testSetGet,
		"has delete":            testHasDelete,
		"snapshot is a copy":    testVariablesCopy,
		"clear leaves counters": testClearLeavesCounters,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewStore(10))
		})
	}
}

func testSetGet(t *testing.T, s *Store) {
	s.Set("greeting", "hello")
	v, ok := s.Get("greeting")
	require.True(t, ok)
	require.Equal(t, "hello", v)

	_, ok = s.Get("missing")
	require.False(t, ok)

	s.Set("greeting", 42)
	v, _ = s.Get("greeting")
	require.Equal(t, 42, v)
}

func testHasDelete(t *testing.T, s *Store) {
	require.False(t, s.Has("x"))
	s.Set("x", 1)
	require.True(t, s.Has("x"))
	s.Delete("x")
	require.False(t, s.Has("x"))
}

func testVariablesCopy(t *testing.T, s *Store) {
	s.Set("a", 1)
	snapshot := s.Variables()
	snapshot["a"] = 99
	snapshot["b"] = "new"

	v, _ := s.Get("a")
	require.Equal(t, 1, v)
	require.False(t, s.Has("b"))
}

func testClearLeavesCounters(t *testing.T, s *Store) {
	s.Set("a", 1)
	s.Increment("hits", 3)
	require.NoError(t, s.UpdateState("alerts.enabled", true))

	s.Clear()

	require.False(t, s.Has("a"))
	require.EqualValues(t, 3, s.GetCounter("hits"))
	v, ok := s.GetState("alerts.enabled")
	require.True(t, ok)
	require.Equal(t, true, v)
}

func TestCounters(t *testing.T) {
	s := NewStore(10)

	require.EqualValues(t, 0, s.GetCounter("gifts"))
	require.EqualValues(t, 1, s.Increment("gifts", 1))
	require.EqualValues(t, 6, s.Increment("gifts", 5))
	require.EqualValues(t, 4, s.Decrement("gifts", 2))
	require.EqualValues(t, 4, s.GetCounter("gifts"))

	s.ResetCounter("gifts")
	require.EqualValues(t, 0, s.GetCounter("gifts"))
}

func TestCreateContext(t *testing.T) {
	s := NewStore(10)

	ec := s.CreateContext(map[string]any{"coins": 5}, "f1", "gift alert", "exec-1", 3)
	require.Equal(t, "f1", ec.FlowId)
	require.Equal(t, "gift alert", ec.FlowName)
	require.Equal(t, "exec-1", ec.ExecutionId)
	require.EqualValues(t, 3, ec.ExecutionCount)
	require.Equal(t, 5, ec.EventData["coins"])
	require.Same(t, s, ec.Store)
	require.False(t, ec.CreatedAt.IsZero())

	require.False(t, ec.Stopped())
	ec.SetStop()
	require.True(t, ec.Stopped())
}

func TestCreateContextNilEventData(t *testing.T) {
	s := NewStore(10)
	ec := s.CreateContext(nil, "f1", "n", "e", 1)
	require.NotNil(t, ec.EventData)
	ec.EventData["k"] = "v"
	require.Equal(t, "v", ec.EventData["k"])
}
