package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/controller"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
)

// Test doubles shared across tests

// fakeRegistry counts lookups so tests can assert it was never consulted.
type fakeRegistry struct {
	controllers map[string]controller.Controller
	calls       int
}

func (r *fakeRegistry) Get(name string) (controller.Controller, error) {
	r.calls++
	c, ok := r.controllers[name]
	if !ok {
		return nil, &controller.NotFoundError{Name: name}
	}
	return c, nil
}

// fakeTrigger records triggered events and optionally runs fn on each.
type fakeTrigger struct {
	events []event.Event
	fn     func(ctx context.Context, evt event.Event) error
}

func (f *fakeTrigger) Trigger(ctx context.Context, evt event.Event) error {
	f.events = append(f.events, evt)
	if f.fn != nil {
		return f.fn(ctx, evt)
	}
	return nil
}

// fakeMetrics records dispatch and action observations.
type fakeMetrics struct {
	mu         sync.Mutex
	dispatches []recorded
	actions    []recorded
}

type recorded struct {
	controller string
	label      string // phase for dispatches, action for actions
	duration   time.Duration
	err        error
}

func (m *fakeMetrics) RecordDispatch(_ context.Context, controller, phase string, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches = append(m.dispatches, recorded{controller: controller, label: phase, duration: d, err: err})
}

func (m *fakeMetrics) RecordAction(_ context.Context, controller, action string, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, recorded{controller: controller, label: action, duration: d, err: err})
}

// call captures the arguments an action was invoked with.
type call struct {
	req httpmsg.Request
	res httpmsg.Response
}

// returning builds an action returning v and recording its arguments.
func returning(v any, calls *[]call) controller.Action {
	return func(_ context.Context, req httpmsg.Request, res httpmsg.Response) (any, error) {
		*calls = append(*calls, call{req: req, res: res})
		return v, nil
	}
}

// failing builds an action returning err.
func failing(err error) controller.Action {
	return func(context.Context, httpmsg.Request, httpmsg.Response) (any, error) {
		return nil, err
	}
}

// blogController is a struct controller dispatching by method name.
type blogController struct {
	posts []string
}

func (b *blogController) Action(method string) (controller.Action, bool) {
	switch method {
	case "indexAction":
		return b.indexAction, true
	default:
		return nil, false
	}
}

func (b *blogController) indexAction(_ context.Context, _ httpmsg.Request, _ httpmsg.Response) (any, error) {
	return b.posts, nil
}

// newServer builds a request/response pair with the given attributes.
func newServer(attrs map[string]any) *httpmsg.Server {
	return httpmsg.NewServer(httpmsg.NewServerRequest(nil, attrs), httpmsg.NewResponse())
}
