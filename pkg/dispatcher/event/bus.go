package event

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Attacher is the registration half of a Bus.
type Attacher interface {
	// Attach subscribes a listener to a channel under an ID.
	// Attaching an ID that already exists on the channel replaces it.
	Attach(channel, id string, listener Listener, priority int)
}

// Trigger is the delivery half of a Bus.
type Trigger interface {
	// Trigger delivers evt synchronously to all matching listeners.
	Trigger(ctx context.Context, evt Event) error
}

// BusConfig configures bus behavior.
type BusConfig struct {
	// MaxDepth bounds nested triggers (a listener triggering another event).
	// Default: 10
	MaxDepth int
}

// DefaultBusConfig provides reasonable defaults.
var DefaultBusConfig = BusConfig{
	MaxDepth: 10,
}

// entry stores a listener with its ordering keys.
type entry struct {
	id       string
	priority int
	seq      uint64
	listener Listener
}

// Bus is a synchronous, priority-ordered, in-memory event bus.
// Listener configuration is guarded for concurrent reads; triggers
// run on the caller's goroutine.
type Bus struct {
	config BusConfig

	mu         sync.RWMutex
	channels   map[string][]entry // channel -> listeners sorted by priority
	middleware []Middleware
	seq        uint64
}

// NewBus creates a new bus.
func NewBus(config BusConfig) *Bus {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultBusConfig.MaxDepth
	}
	return &Bus{
		config:   config,
		channels: make(map[string][]entry),
	}
}

// Use adds middleware that applies to subsequently attached listeners.
func (b *Bus) Use(middleware Middleware) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.middleware = append(b.middleware, middleware)
}

// Attach implements Attacher.
// Higher priority runs first; equal priorities run in attach order.
func (b *Bus) Attach(channel, id string, listener Listener, priority int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	e := entry{
		id:       id,
		priority: priority,
		seq:      b.seq,
		listener: Chain(listener, b.middleware...),
	}

	entries := b.channels[channel]
	for i, existing := range entries {
		if existing.id == id {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	entries = append(entries, e)
	sortEntries(entries)
	b.channels[channel] = entries
}

// Detach removes a listener from a channel.
// Returns false if no listener with that ID was attached.
func (b *Bus) Detach(channel, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.channels[channel]
	for i, e := range entries {
		if e.id == id {
			b.channels[channel] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Listeners returns the listener IDs of a channel in delivery order.
func (b *Bus) Listeners(channel string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := b.channels[channel]
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Trigger implements Trigger.
//
// Listeners attached to evt.Type() and evt.Name() are merged and run in
// descending priority. Delivery stops after a listener stops propagation.
// The first listener error is returned as is.
func (b *Bus) Trigger(ctx context.Context, evt Event) error {
	if evt == nil {
		return ErrNilEvent
	}

	depth := getEventDepth(ctx)
	if depth >= b.config.MaxDepth {
		return &EventError{
			Event:   evt,
			Message: fmt.Sprintf("depth %d", b.config.MaxDepth),
			Err:     ErrMaxDepthExceeded,
		}
	}
	ctx = withEventDepth(ctx, depth+1)

	for _, e := range b.matching(evt) {
		if evt.IsPropagationStopped() {
			return nil
		}
		if err := e.listener.Handle(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// matching snapshots the listeners for an event's type and name.
func (b *Bus) matching(evt Event) []entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	byType := b.channels[evt.Type()]
	if evt.Name() == evt.Type() {
		return append([]entry(nil), byType...)
	}

	byName := b.channels[evt.Name()]
	merged := make([]entry, 0, len(byType)+len(byName))
	merged = append(merged, byType...)
	merged = append(merged, byName...)
	sortEntries(merged)
	return merged
}

func sortEntries(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
}

// Context keys for event depth tracking
type contextKey string

const eventDepthKey contextKey = "event_depth"

func getEventDepth(ctx context.Context) int {
	if v, ok := ctx.Value(eventDepthKey).(int); ok {
		return v
	}
	return 0
}

func withEventDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, eventDepthKey, depth)
}
