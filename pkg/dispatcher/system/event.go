// Package system provides the outer event that drives a request through
// the framework's phases. The dispatcher listens to the Dispatch phase
// and writes its outcome back under Dispatch or Finish.
package system

import (
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
)

// Phase names a stage of the system pipeline. A phase is also the
// channel listeners attach to.
type Phase string

const (
	// Dispatch is the non-terminal phase: its result is a raw value the
	// pipeline may still render or dispatch again.
	Dispatch Phase = "system.dispatch"

	// Finish is the terminal phase: its result is a complete response.
	Finish Phase = "system.finish"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// Event is the outer system event. Its name is the current phase.
type Event struct {
	event.Base

	results map[Phase]any
}

// Compile-time interface check.
var _ event.Event = (*Event)(nil)

// NewEvent creates a system event in the Dispatch phase.
// params usually holds the route parameters; the map is copied.
func NewEvent(params map[string]any) *Event {
	return &Event{
		Base:    event.NewBase(Dispatch.String(), params),
		results: make(map[Phase]any),
	}
}

// Type returns the current phase.
func (e *Event) Type() string {
	return e.Name()
}

// Phase returns the current phase.
func (e *Event) Phase() Phase {
	return Phase(e.Name())
}

// SetPhase moves the event to another phase and clears propagation
// so the event can be triggered again.
func (e *Event) SetPhase(p Phase) {
	e.SetName(p.String())
	e.Propagation = event.Propagation{}
}

// SetResult stores the result of a phase.
func (e *Event) SetResult(p Phase, v any) {
	e.results[p] = v
}

// Result returns the result stored for a phase.
func (e *Event) Result(p Phase) (any, bool) {
	v, ok := e.results[p]
	return v, ok
}

// HasResult reports whether a result was stored for a phase.
func (e *Event) HasResult(p Phase) bool {
	_, ok := e.results[p]
	return ok
}
