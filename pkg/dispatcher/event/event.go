package event

import (
	"maps"

	"github.com/google/uuid"
)

// Event is the core interface for everything triggered on a Bus.
//
// Listeners are attached to channels. An event is delivered to the
// listeners of its Type and of its Name, so a listener can subscribe
// either to a whole family of events or to one specific event.
type Event interface {
	// Identity
	ID() string   // Unique event identifier
	Type() string // Event family (e.g., "system.dispatch", "dispatcher.dispatch")
	Name() string // Specific event name (e.g., "Blog@index")

	// Payload
	Context() any           // Object the event is about
	Params() map[string]any // Copy of the event parameters
	Param(key string) any   // Single parameter, nil if absent

	// Propagation
	StopPropagation()
	IsPropagationStopped() bool
}

// Propagation carries the stop flag shared by all events.
// Embed it to satisfy the propagation half of Event.
type Propagation struct {
	stopped bool
}

// StopPropagation prevents listeners with lower priority from running.
func (p *Propagation) StopPropagation() {
	p.stopped = true
}

// IsPropagationStopped reports whether a listener stopped the event.
func (p *Propagation) IsPropagationStopped() bool {
	return p.stopped
}

// Base provides a generic mutable event implementation.
// Concrete events embed it and override Type.
type Base struct {
	Propagation

	id      string
	name    string
	context any
	params  map[string]any
}

// NewBase creates a Base with a fresh UUID.
// The params map is copied.
func NewBase(name string, params map[string]any) Base {
	p := make(map[string]any, len(params))
	maps.Copy(p, params)
	return Base{
		id:     uuid.New().String(),
		name:   name,
		params: p,
	}
}

// ID returns the unique event identifier.
func (b *Base) ID() string {
	return b.id
}

// Type returns the event name. Concrete events usually override this.
func (b *Base) Type() string {
	return b.name
}

// Name returns the event name.
func (b *Base) Name() string {
	return b.name
}

// SetName renames the event.
func (b *Base) SetName(name string) {
	b.name = name
}

// Context returns the object the event is about.
func (b *Base) Context() any {
	return b.context
}

// SetContext replaces the event context.
func (b *Base) SetContext(v any) {
	b.context = v
}

// Params returns a copy of the event parameters.
func (b *Base) Params() map[string]any {
	return maps.Clone(b.params)
}

// Param returns a single parameter, or nil if absent.
func (b *Base) Param(key string) any {
	return b.params[key]
}

// SetParam sets a single parameter.
func (b *Base) SetParam(key string, v any) {
	if b.params == nil {
		b.params = make(map[string]any)
	}
	b.params[key] = v
}

// SetParams merges params into the event parameters.
func (b *Base) SetParams(params map[string]any) {
	if b.params == nil {
		b.params = make(map[string]any, len(params))
	}
	maps.Copy(b.params, params)
}
