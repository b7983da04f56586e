package store

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/castflow/castflow/model"
)

func giftEvent(n int) model.Event {
	return model.Event{Type: "tiktok:gift", Data: map[string]any{"n": n}}
}

func TestEventRingEviction(t *testing.T) {
	s := NewStore(3)

	for i := 1; i <= 5; i++ {
		s.AddEvent(giftEvent(i))
	}
	require.Equal(t, 3, s.EventCount())

	history := s.GetEventHistory(0)
	require.Len(t, history, 3)
	// newest first, oldest two evicted
	require.Equal(t, 5, history[0].Data["n"])
	require.Equal(t, 4, history[1].Data["n"])
	require.Equal(t, 3, history[2].Data["n"])
}

func TestEventHistoryLimit(t *testing.T) {
	s := NewStore(10)
	for i := 1; i <= 4; i++ {
		s.AddEvent(giftEvent(i))
	}

	history := s.GetEventHistory(2)
	require.Len(t, history, 2)
	require.Equal(t, 4, history[0].Data["n"])
	require.Equal(t, 3, history[1].Data["n"])

	require.Len(t, s.GetEventHistory(100), 4)
}

func TestGetLastEvent(t *testing.T) {
	s := NewStore(10)
	require.Nil(t, s.GetLastEvent("tiktok:gift"))

	for i := 1; i <= 3; i++ {
		s.AddEvent(giftEvent(i))
		s.AddEvent(model.Event{Type: "tiktok:chat", Data: map[string]any{"text": strconv.Itoa(i)}})
	}

	last := s.GetLastEvent("tiktok:gift")
	require.NotNil(t, last)
	require.Equal(t, 3, last.Data["n"])

	require.Nil(t, s.GetLastEvent("tiktok:follow"))
}
