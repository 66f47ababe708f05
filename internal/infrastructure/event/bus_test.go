package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Warehouse", uuid.New(), uuid.New())}
}

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, e)
	h.mu.Unlock()
	if h.panic {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	created := &recordingHandler{types: []string{"WarehouseCreated"}}
	archived := &recordingHandler{types: []string{"ConversationArchived"}}
	bus.Subscribe(created)
	bus.Subscribe(archived)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("WarehouseCreated"),
		newTestEvent("WarehouseCreated"),
	))

	assert.Equal(t, 2, created.count())
	assert.Equal(t, 0, archived.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("MessageSent"), newTestEvent("BillPosted")))
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailuresDoNotStopOtherHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"X"}, err: errors.New("down")}
	panicking := &recordingHandler{types: []string{"X"}, panic: true}
	healthy := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X", "Y"}}
	id := bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	bus.Unsubscribe(id)
	bus.Unsubscribe(uuid.New())
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X"), newTestEvent("Y")))

	assert.Equal(t, 1, h.count())
	assert.Empty(t, bus.byType)
}

// funcHandler holds a func, so its values cannot be compared with ==
type funcHandler struct {
	types []string
	fn    func(shared.DomainEvent)
}

func (h funcHandler) EventTypes() []string { return h.types }

func (h funcHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.fn(e)
	return nil
}

func TestInMemoryEventBus_UnsubscribeUncomparableHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	var first, second int
	firstID := bus.Subscribe(funcHandler{types: []string{"X"}, fn: func(shared.DomainEvent) { first++ }})
	bus.Subscribe(funcHandler{fn: func(shared.DomainEvent) { second++ }})

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.NotPanics(t, func() { bus.Unsubscribe(firstID) })
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Empty(t, bus.byType)
	assert.Len(t, bus.wildcard, 1)
}

func TestInMemoryEventBus_SameHandlerSubscribedTwice(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X"}}
	firstID := bus.Subscribe(h)
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	bus.Unsubscribe(firstID)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))

	assert.Equal(t, 3, h.count())
}

func TestInMemoryEventBus_StopRejectsPublish(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)

	require.NoError(t, bus.Stop(ctx))
	assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("X")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_TracesDispatch(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	bus := NewInMemoryEventBus(zap.NewNop(), WithTracerProvider(tp))
	bus.Subscribe(&recordingHandler{types: []string{"MessageSent"}})
	bus.Subscribe(&recordingHandler{types: []string{"MessageSent"}, err: errors.New("nope")})

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("MessageSent")))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "event MessageSent", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("aggregate.type", "Warehouse"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
