package dispatcher

import (
	"fmt"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/config"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/system"
)

// Version is the dispatcher component version.
const Version = "0.1.0"

// ListenerName is the name the Listener is declared under.
const ListenerName = "Dispatcher"

// Listener method names used in bindings.
const (
	MethodOnDispatch = "onDispatch"
	MethodDoDispatch = "doDispatch"
)

// Binding wires one listener method to a bus channel.
type Binding struct {
	ID       string // "Dispatcher::onDispatch"
	Channel  string
	Listener string
	Method   string
	Priority int
}

// Component declares the dispatcher listeners and their bindings to a host.
type Component struct {
	listeners  map[string]*Listener
	priorities config.Priorities
}

// NewComponent creates the component for listener. Zero priorities fall
// back to config.DefaultOnDispatchPriority and config.DefaultDoDispatchPriority.
func NewComponent(listener *Listener, priorities config.Priorities) *Component {
	if priorities.OnDispatch == 0 {
		priorities.OnDispatch = config.DefaultOnDispatchPriority
	}
	if priorities.DoDispatch == 0 {
		priorities.DoDispatch = config.DefaultDoDispatchPriority
	}
	return &Component{
		listeners:  map[string]*Listener{ListenerName: listener},
		priorities: priorities,
	}
}

// Version returns the component version.
func (c *Component) Version() string {
	return Version
}

// ListenerNames returns the names of the declared listeners.
func (c *Component) ListenerNames() []string {
	return []string{ListenerName}
}

// Bindings returns the channel bindings: onDispatch on system.Dispatch and
// doDispatch on EventType.
func (c *Component) Bindings() []Binding {
	return []Binding{
		{
			ID:       ListenerName + "::" + MethodOnDispatch,
			Channel:  system.Dispatch.String(),
			Listener: ListenerName,
			Method:   MethodOnDispatch,
			Priority: c.priorities.OnDispatch,
		},
		{
			ID:       ListenerName + "::" + MethodDoDispatch,
			Channel:  EventType,
			Listener: ListenerName,
			Method:   MethodDoDispatch,
			Priority: c.priorities.DoDispatch,
		},
	}
}

// Register resolves every binding and attaches it to bus.
// Nothing is attached if a binding cannot be resolved.
func (c *Component) Register(bus event.Attacher) error {
	bindings := c.Bindings()
	resolved := make([]event.Listener, len(bindings))
	for i, b := range bindings {
		l, ok := c.listeners[b.Listener]
		if !ok || l == nil {
			return fmt.Errorf("%w: listener %q", ErrUnknownBinding, b.Listener)
		}
		fn, ok := l.Method(b.Method)
		if !ok {
			return fmt.Errorf("%w: %s has no method %q", ErrUnknownBinding, b.Listener, b.Method)
		}
		resolved[i] = fn
	}

	for i, b := range bindings {
		bus.Attach(b.Channel, b.ID, resolved[i], b.Priority)
	}
	return nil
}
