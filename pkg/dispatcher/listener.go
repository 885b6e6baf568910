package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/journal"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/observability"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/system"
)

// Outer is the part of the system event the dispatcher reads and writes.
// *system.Event implements it.
type Outer interface {
	Params() map[string]any
	SetContext(v any)
	SetResult(p system.Phase, v any)
}

// Listener runs the two dispatch phases.
//
// OnDispatch listens on system.Dispatch: it resolves the target of the
// current request and triggers a DispatchEvent. DoDispatch listens on
// EventType and invokes the action. Because DoDispatch goes through the
// bus, other listeners on EventType or on "<controller>@<action>" run
// before or after it according to their priority.
//
// A Listener holds no per-request state and is safe for concurrent use.
type Listener struct {
	controllers Controllers
	events      event.Trigger
	server      httpmsg.Provider
	cfg         listenerConfig
}

// NewListener creates a Listener from its three collaborators.
func NewListener(controllers Controllers, events event.Trigger, server httpmsg.Provider, opts ...Option) *Listener {
	cfg := defaultListenerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Listener{
		controllers: controllers,
		events:      events,
		server:      server,
		cfg:         cfg,
	}
}

// OnDispatch resolves the controller and action of the current request,
// triggers the DispatchEvent and stores its result on outer under
// system.Finish when it is an httpmsg.Response, system.Dispatch otherwise.
//
// No error is recovered: missing controller, unknown controller, invalid
// target and action failures are all returned to the caller.
func (l *Listener) OnDispatch(ctx context.Context, outer Outer) error {
	start := time.Now()

	srv, err := l.server.Server(ctx)
	if err != nil {
		err = fmt.Errorf("dispatch: %w", err)
		l.finish(ctx, cycle{id: uuid.New().String(), start: start}, "", err)
		return err
	}

	evt, err := ResolveDispatchEvent(srv.Request(), outer.Params(), l.controllers, l.cfg.defaultAction)
	if err != nil {
		c := cycle{id: uuid.New().String(), start: start}
		if name, ok := srv.Request().Attribute(ParamController, nil).(string); ok {
			c.controller = name
		}
		l.finish(ctx, c, "", err)
		return err
	}

	c := cycle{
		id:         evt.ID(),
		name:       evt.Name(),
		controller: evt.ControllerName(),
		action:     evt.ActionName(),
		start:      start,
	}
	logger := observability.EnrichLogger(l.cfg.logger, c.id, c.controller, c.action)
	observability.LogDispatchStart(logger, c.name)

	outer.SetContext(evt.Controller())

	spanCtx, span := l.cfg.spans.StartDispatchSpan(ctx, c.id, c.controller, c.action)
	l.cfg.spans.AddSpanEvent(spanCtx, "dispatch.triggered", attribute.String("dispatch.name", c.name))
	err = l.events.Trigger(spanCtx, evt)
	if err != nil {
		l.cfg.spans.EndSpanWithError(span, err)
		l.finish(ctx, c, "", err)
		return err
	}

	result := evt.Result()
	phase := ClassifyResult(result)
	outer.SetResult(phase, result)

	l.cfg.spans.EndSpanWithError(span, nil)
	l.finish(ctx, c, phase, nil)
	return nil
}

// DoDispatch invokes the action of evt with the current request, augmented
// with the dispatch parameters, and the current response. The action's
// return value is stored with evt.SetResult. An action error is returned
// as an *ActionError and never retried.
func (l *Listener) DoDispatch(ctx context.Context, evt *DispatchEvent) error {
	method := evt.ActionMethod()
	action, ok := evt.Controller().Action(method)
	if !ok {
		return &InvalidTargetError{
			Check:          CheckAction,
			Kind:           kindOf(evt.Controller()),
			ControllerName: evt.ControllerName(),
			Method:         method,
		}
	}

	srv, err := l.server.Server(ctx)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", method, err)
	}
	req := srv.Request().WithAddedAttributes(evt.Params())

	start := time.Now()
	actionCtx, span := l.cfg.spans.StartActionSpan(ctx, evt.ControllerName(), method)
	result, err := action(actionCtx, req, srv.Response())
	l.cfg.metrics.RecordAction(ctx, evt.ControllerName(), evt.ActionName(), time.Since(start), err)
	l.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		logger := observability.EnrichLogger(l.cfg.logger, evt.ID(), evt.ControllerName(), evt.ActionName())
		observability.LogActionError(logger, method, err)
		return &ActionError{Controller: evt.ControllerName(), Method: method, Err: err}
	}

	evt.SetResult(result)
	return nil
}

// Method returns the bus listener for a listener method name
// ("onDispatch" or "doDispatch").
func (l *Listener) Method(name string) (event.Listener, bool) {
	switch name {
	case MethodOnDispatch:
		return event.Typed(func(ctx context.Context, evt *system.Event) error {
			return l.OnDispatch(ctx, evt)
		}), true
	case MethodDoDispatch:
		return event.Typed(l.DoDispatch), true
	default:
		return nil, false
	}
}

// cycle identifies one dispatch cycle for logs, metrics and the journal.
type cycle struct {
	id         string
	name       string
	controller string
	action     string
	start      time.Time
}

// finish reports the outcome of a cycle.
func (l *Listener) finish(ctx context.Context, c cycle, phase system.Phase, err error) {
	duration := time.Since(c.start)
	durationMs := observability.DurationMs(duration)
	l.cfg.metrics.RecordDispatch(ctx, c.controller, phase.String(), duration, err)

	logger := observability.EnrichLogger(l.cfg.logger, c.id, c.controller, c.action)
	if err != nil {
		observability.LogDispatchError(logger, c.name, err, durationMs)
	} else {
		observability.LogDispatchComplete(logger, c.name, phase.String(), durationMs)
	}

	if l.cfg.journal == nil {
		return
	}
	entry := journal.Entry{
		CycleID:    c.id,
		Name:       c.name,
		Controller: c.controller,
		Action:     c.action,
		Phase:      phase.String(),
		Duration:   duration,
		Timestamp:  c.start,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := l.cfg.journal.Record(ctx, entry); jerr != nil {
		observability.LogJournalError(logger, c.id, jerr)
	}
}
