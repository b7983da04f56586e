package template

import (
	"testing"

	"github.com/castflow/castflow/store"
	"github.com/stretchr/testify/require"
)

func newTestContext() *store.ExecutionContext {
	st := store.NewStore(10)
	st.Set("greeting", "welcome")
	eventData := map[string]any{
		"username": "streamfan42",
		"gift": map[string]any{
			"name":  "Rose",
			"coins": 5,
		},
	}
	return st.CreateContext(eventData, "flow-1", "gift alert", "exec-1", 3)
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	ec := newTestContext()
	for scenario, fn := range map[string]func(t *testing.T){
		"event field": func(t *testing.T) {
			require.Equal(t, "hello streamfan42", r.Render("hello {username}", ec))
		},
		"dotted event path": func(t *testing.T) {
			require.Equal(t, "sent Rose worth 5", r.Render("sent {gift.name} worth {gift.coins}", ec))
		},
		"variable fallback": func(t *testing.T) {
			require.Equal(t, "welcome back", r.Render("{greeting} back", ec))
		},
		"jsonpath expression": func(t *testing.T) {
			require.Equal(t, "Rose", r.Render("{$.event.gift.name}", ec))
		},
		"jsonpath flow metadata": func(t *testing.T) {
			require.Equal(t, "run exec-1 of gift alert", r.Render("run {$.flow.executionId} of {$.flow.name}", ec))
		},
		"unknown token left in place": func(t *testing.T) {
			require.Equal(t, "hi {nobody}", r.Render("hi {nobody}", ec))
		},
		"no tokens": func(t *testing.T) {
			require.Equal(t, "plain text", r.Render("plain text", ec))
		},
	} {
		t.Run(scenario, fn)
	}
}

func TestRenderParams(t *testing.T) {
	r := NewRenderer()
	ec := newTestContext()
	params := map[string]any{
		"message": "thanks {username}",
		"count":   7,
		"nested": map[string]any{
			"inner": "{gift.name}",
		},
		"list": []any{"{username}", 1},
	}
	out := r.RenderParams(params, ec)
	require.Equal(t, "thanks streamfan42", out["message"])
	require.Equal(t, 7, out["count"])
	require.Equal(t, "Rose", out["nested"].(map[string]any)["inner"])
	require.Equal(t, "streamfan42", out["list"].([]any)[0])
	require.Equal(t, 1, out["list"].([]any)[1])
	// input untouched
	require.Equal(t, "thanks {username}", params["message"])
}
