package action

import (
	"sync"
	"testing"
	"time"

	"github.com/castflow/castflow/model"
	"github.com/castflow/castflow/registry"
	"github.com/castflow/castflow/store"
	"github.com/castflow/castflow/template"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	mu     sync.Mutex
	events []string
	data   []map[string]any
}

func (f *fakeRunner) ProcessEvent(eventType string, eventData map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	f.data = append(f.data, eventData)
	return nil
}

func (f *fakeRunner) ExecuteFlowByID(id string, eventData map[string]any) error {
	return nil
}

func testServices() (*registry.Services, *store.Store) {
	st := store.NewStore(10)
	return &registry.Services{
		Store:    st,
		Renderer: template.NewRenderer(),
		Engine:   &fakeRunner{},
		Logger:   zap.NewNop(),
	}, st
}

func testCtx(st *store.Store, data map[string]any) *store.ExecutionContext {
	return st.CreateContext(data, "flow-1", "test flow", "exec-1", 1)
}

func spec(actionType string, p map[string]any) model.ActionSpec {
	return model.ActionSpec{Type: actionType, Params: p}
}

func TestRegisterBuiltins(t *testing.T) {
	reg := registry.NewActionRegistry()
	require.NoError(t, RegisterBuiltins(reg))
	require.Equal(t, 9, reg.Count())
	for _, name := range []string{"set_variable", "increment_counter", "update_state", "set_cooldown",
		"chat_guard", "delay", "script", "emit_event", "log"} {
		_, ok := reg.Get(name)
		require.True(t, ok, name)
	}
}

func TestSetVariable(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, map[string]any{"username": "fan42"})

	err := SetVariable(spec("set_variable", map[string]any{"name": "greeting", "value": "hi {username}"}), ec, services)
	require.NoError(t, err)
	v, ok := st.Get("greeting")
	require.True(t, ok)
	require.Equal(t, "hi fan42", v)

	require.Error(t, SetVariable(spec("set_variable", map[string]any{"value": 1}), ec, services))
	require.Error(t, SetVariable(spec("set_variable", map[string]any{"name": "x"}), ec, services))
}

func TestIncrementCounter(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, nil)

	require.NoError(t, IncrementCounter(spec("increment_counter", map[string]any{"name": "gifts"}), ec, services))
	require.NoError(t, IncrementCounter(spec("increment_counter", map[string]any{"name": "gifts", "amount": 5}), ec, services))
	require.EqualValues(t, 6, st.GetCounter("gifts"))

	require.NoError(t, IncrementCounter(spec("increment_counter", map[string]any{"name": "gifts", "amount": -2}), ec, services))
	require.EqualValues(t, 4, st.GetCounter("gifts"))

	require.Error(t, IncrementCounter(spec("increment_counter", nil), ec, services))
}

func TestUpdateState(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, map[string]any{"username": "fan42"})

	err := UpdateState(spec("update_state", map[string]any{"path": "session.lastSender", "value": "{username}"}), ec, services)
	require.NoError(t, err)
	v, ok := st.GetState("session.lastSender")
	require.True(t, ok)
	require.Equal(t, "fan42", v)

	err = UpdateState(spec("update_state", map[string]any{"path": "a.__proto__.x", "value": 1}), ec, services)
	require.Error(t, err)
	require.ErrorContains(t, err, "blocked segment")
	_, ok = st.GetState("a")
	require.False(t, ok, "blocked write must not create intermediate nodes")
}

func TestChatGuardCooldown(t *testing.T) {
	services, st := testServices()
	current := time.Unix(1700000000, 0)
	st.SetNowFunc(func() time.Time { return current })
	guard := spec("chat_guard", map[string]any{"key": "greet", "cooldownSeconds": 30})

	ec1 := testCtx(st, nil)
	require.NoError(t, ChatGuard(guard, ec1, services))
	require.False(t, ec1.Stopped(), "first pass goes through")

	ec2 := testCtx(st, nil)
	require.NoError(t, ChatGuard(guard, ec2, services))
	require.True(t, ec2.Stopped(), "cooldown active stops the flow")

	current = current.Add(31 * time.Second)
	ec3 := testCtx(st, nil)
	require.NoError(t, ChatGuard(guard, ec3, services))
	require.False(t, ec3.Stopped(), "cooldown expired")
}

func TestChatGuardRateLimit(t *testing.T) {
	services, st := testServices()
	current := time.Unix(1700000000, 0)
	st.SetNowFunc(func() time.Time { return current })
	guard := spec("chat_guard", map[string]any{"key": "spam", "maxPerWindow": 2, "windowSeconds": 60})

	for i := 0; i < 2; i++ {
		ec := testCtx(st, nil)
		require.NoError(t, ChatGuard(guard, ec, services))
		require.False(t, ec.Stopped())
	}
	ec := testCtx(st, nil)
	require.NoError(t, ChatGuard(guard, ec, services))
	require.True(t, ec.Stopped(), "third call within the window is over the limit")

	current = current.Add(61 * time.Second)
	ec = testCtx(st, nil)
	require.NoError(t, ChatGuard(guard, ec, services))
	require.False(t, ec.Stopped(), "window pruned after the time advance")
}

func TestSetCooldownAction(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, nil)
	require.NoError(t, SetCooldown(spec("set_cooldown", map[string]any{"key": "alert"}), ec, services))
	require.True(t, st.IsCooldownActive("alert", 30))
}

func TestDelay(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, nil)

	require.Error(t, Delay(spec("delay", nil), ec, services))
	require.Error(t, Delay(spec("delay", map[string]any{"seconds": 0}), ec, services))

	start := time.Now()
	require.NoError(t, Delay(spec("delay", map[string]any{"seconds": 0.1}), ec, services))
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestScript(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, map[string]any{"coins": 21})

	err := Script(spec("script", map[string]any{"source": `setVariable("total", $.event.coins * 2)`}), ec, services)
	require.NoError(t, err)
	v, ok := st.Get("total")
	require.True(t, ok)
	require.EqualValues(t, 42, v)

	err = Script(spec("script", map[string]any{"source": `stopFlow()`}), ec, services)
	require.NoError(t, err)
	require.True(t, ec.Stopped())

	require.Error(t, Script(spec("script", map[string]any{"source": "syntax error ((("}), ec, services))
	require.Error(t, Script(spec("script", nil), ec, services))
}

func TestEmitEvent(t *testing.T) {
	services, st := testServices()
	runner := services.Engine.(*fakeRunner)
	ec := testCtx(st, map[string]any{"kind": "tiktok:gift", "coins": 10})

	err := EmitEvent(spec("emit_event", map[string]any{"event": "{kind}"}), ec, services)
	require.NoError(t, err)
	require.Equal(t, []string{"tiktok:gift"}, runner.events)
	require.Equal(t, ec.EventData, runner.data[0], "event payload forwarded when no data parameter is set")

	err = EmitEvent(spec("emit_event", map[string]any{
		"event": "tiktok:chat",
		"data":  map[string]any{"message": "from {kind}"},
	}), ec, services)
	require.NoError(t, err)
	require.Equal(t, "tiktok:chat", runner.events[1])
	require.Equal(t, "from tiktok:gift", runner.data[1]["message"])

	require.Error(t, EmitEvent(spec("emit_event", nil), ec, services))
}

func TestLog(t *testing.T) {
	services, st := testServices()
	ec := testCtx(st, map[string]any{"username": "fan42"})
	require.NoError(t, Log(spec("log", map[string]any{"message": "seen {username}", "level": "debug"}), ec, services))
	require.NoError(t, Log(spec("log", map[string]any{"message": "plain"}), ec, services))
	require.Error(t, Log(spec("log", nil), ec, services))
}
