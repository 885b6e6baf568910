package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Base
	typ string
}

func newTestEvent(typ, name string) *testEvent {
	return &testEvent{Base: NewBase(name, nil), typ: typ}
}

func (e *testEvent) Type() string { return e.typ }

type otherEvent struct {
	Base
}

// recorder returns a listener appending its id to order.
func recorder(order *[]string, id string) Listener {
	return ListenerFunc(func(_ context.Context, _ Event) error {
		*order = append(*order, id)
		return nil
	})
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("t", "low", recorder(&order, "low"), 1)
	bus.Attach("t", "high", recorder(&order, "high"), 100)
	bus.Attach("t", "mid-a", recorder(&order, "mid-a"), 50)
	bus.Attach("t", "mid-b", recorder(&order, "mid-b"), 50)

	require.NoError(t, bus.Trigger(context.Background(), newTestEvent("t", "t")))
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, order)
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, bus.Listeners("t"))
}

func TestBus_TypeAndNameChannelsMerge(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("family", "by-type", recorder(&order, "by-type"), 10)
	bus.Attach("Blog@index", "by-name", recorder(&order, "by-name"), 20)
	bus.Attach("Blog@show", "other-name", recorder(&order, "other-name"), 30)

	require.NoError(t, bus.Trigger(context.Background(), newTestEvent("family", "Blog@index")))
	assert.Equal(t, []string{"by-name", "by-type"}, order)
}

func TestBus_AttachReplacesSameID(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("t", "x", recorder(&order, "first"), 1)
	bus.Attach("t", "x", recorder(&order, "second"), 1)

	require.NoError(t, bus.Trigger(context.Background(), newTestEvent("t", "t")))
	assert.Equal(t, []string{"second"}, order)
}

func TestBus_Detach(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("t", "a", recorder(&order, "a"), 1)
	bus.Attach("t", "b", recorder(&order, "b"), 2)

	assert.True(t, bus.Detach("t", "b"))
	assert.False(t, bus.Detach("t", "b"))
	assert.False(t, bus.Detach("missing", "a"))

	require.NoError(t, bus.Trigger(context.Background(), newTestEvent("t", "t")))
	assert.Equal(t, []string{"a"}, order)
}

func TestBus_StopPropagation(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("t", "first", ListenerFunc(func(_ context.Context, evt Event) error {
		order = append(order, "first")
		evt.StopPropagation()
		return nil
	}), 10)
	bus.Attach("t", "second", recorder(&order, "second"), 5)

	evt := newTestEvent("t", "t")
	require.NoError(t, bus.Trigger(context.Background(), evt))
	assert.Equal(t, []string{"first"}, order)
	assert.True(t, evt.IsPropagationStopped())
}

func TestBus_ListenerErrorReturnedUnchanged(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string
	boom := errors.New("boom")

	bus.Attach("t", "fails", ListenerFunc(func(context.Context, Event) error {
		return boom
	}), 10)
	bus.Attach("t", "never", recorder(&order, "never"), 1)

	err := bus.Trigger(context.Background(), newTestEvent("t", "t"))
	assert.Same(t, boom, err)
	assert.Empty(t, order)
}

func TestBus_NoListeners(t *testing.T) {
	bus := NewBus(BusConfig{})
	assert.NoError(t, bus.Trigger(context.Background(), newTestEvent("t", "t")))
}

func TestBus_NilEvent(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	assert.ErrorIs(t, bus.Trigger(context.Background(), nil), ErrNilEvent)
}

func TestBus_MaxDepth(t *testing.T) {
	bus := NewBus(BusConfig{MaxDepth: 3})
	calls := 0

	bus.Attach("loop", "again", ListenerFunc(func(ctx context.Context, evt Event) error {
		calls++
		return bus.Trigger(ctx, newTestEvent("loop", "loop"))
	}), 1)

	err := bus.Trigger(context.Background(), newTestEvent("loop", "loop"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)

	var evtErr *EventError
	require.ErrorAs(t, err, &evtErr)
	assert.Equal(t, 3, calls)
}

func TestTyped(t *testing.T) {
	var got *testEvent
	listener := Typed(func(_ context.Context, evt *testEvent) error {
		got = evt
		return nil
	})

	evt := newTestEvent("t", "n")
	require.NoError(t, listener.Handle(context.Background(), evt))
	assert.Same(t, evt, got)

	err := listener.Handle(context.Background(), &otherEvent{Base: NewBase("other", nil)})
	var evtErr *EventError
	require.ErrorAs(t, err, &evtErr)
	assert.Contains(t, evtErr.Error(), "unexpected event type")
}

func TestMiddleware_AppliesToLaterAttach(t *testing.T) {
	bus := NewBus(DefaultBusConfig)
	var order []string

	bus.Attach("t", "before", recorder(&order, "before"), 2)
	bus.Use(func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, evt Event) error {
			order = append(order, "mw")
			return next.Handle(ctx, evt)
		})
	})
	bus.Attach("t", "after", recorder(&order, "after"), 1)

	require.NoError(t, bus.Trigger(context.Background(), newTestEvent("t", "t")))
	assert.Equal(t, []string{"before", "mw", "after"}, order)
}

func TestRecovery(t *testing.T) {
	listener := Chain(ListenerFunc(func(context.Context, Event) error {
		panic("kaboom")
	}), Recovery())

	err := listener.Handle(context.Background(), newTestEvent("t", "t"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener panic: kaboom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := Chain(ListenerFunc(func(context.Context, Event) error { return nil }), Logging(logger))
	require.NoError(t, ok.Handle(context.Background(), newTestEvent("t", "Blog@index")))
	assert.Contains(t, buf.String(), "listener completed")
	assert.Contains(t, buf.String(), `"event_name":"Blog@index"`)

	buf.Reset()
	failing := Chain(ListenerFunc(func(context.Context, Event) error { return errors.New("nope") }), Logging(logger))
	require.Error(t, failing.Handle(context.Background(), newTestEvent("t", "t")))
	assert.Contains(t, buf.String(), "listener failed")
	assert.Contains(t, buf.String(), "nope")

	// nil logger leaves the listener untouched
	passthrough := Logging(nil)(ok)
	assert.NoError(t, passthrough.Handle(context.Background(), newTestEvent("t", "t")))
}

func TestTiming(t *testing.T) {
	var (
		seen   Event
		gotErr error
		called bool
	)
	boom := errors.New("boom")
	listener := Chain(ListenerFunc(func(context.Context, Event) error { return boom }),
		Timing(func(evt Event, d time.Duration, err error) {
			called = true
			seen = evt
			gotErr = err
			assert.GreaterOrEqual(t, d, time.Duration(0))
		}))

	evt := newTestEvent("t", "t")
	assert.Same(t, boom, listener.Handle(context.Background(), evt))
	assert.True(t, called)
	assert.Same(t, evt, seen)
	assert.Same(t, boom, gotErr)
}

func TestBase(t *testing.T) {
	params := map[string]any{"id": 7}
	b := NewBase("name", params)
	params["id"] = 8

	assert.NotEmpty(t, b.ID())
	assert.Equal(t, "name", b.Name())
	assert.Equal(t, "name", b.Type())
	assert.Equal(t, 7, b.Param("id"))
	assert.Nil(t, b.Param("missing"))

	copied := b.Params()
	copied["id"] = 9
	assert.Equal(t, 7, b.Param("id"))

	b.SetParams(map[string]any{"x": "y"})
	b.SetParam("id", 10)
	assert.Equal(t, map[string]any{"id": 10, "x": "y"}, b.Params())

	b.SetContext("ctx")
	assert.Equal(t, "ctx", b.Context())

	b.SetName("renamed")
	assert.Equal(t, "renamed", b.Name())

	other := NewBase("name", nil)
	assert.NotEqual(t, b.ID(), other.ID())
}
