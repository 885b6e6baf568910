// Package event provides the synchronous event bus the dispatcher runs on.
//
// # Overview
//
// The bus delivers an event to every listener attached to the event's
// Type or Name channel, highest priority first. Delivery is synchronous:
// Trigger returns after the last listener ran, after a listener stopped
// propagation, or with the first listener error.
//
//	bus := event.NewBus(event.DefaultBusConfig)
//	bus.Use(event.Recovery())
//	bus.Attach("system.dispatch", "Dispatcher::onDispatch", listener, 10000)
//
//	if err := bus.Trigger(ctx, evt); err != nil {
//	    // listener error, unchanged
//	}
//
// # Typed Listeners
//
// Typed adapts a function taking a concrete event type:
//
//	bus.Attach(dispatcher.EventType, "audit", event.Typed(func(ctx context.Context, evt *dispatcher.DispatchEvent) error {
//	    log.Println(evt.Name())
//	    return nil
//	}), 2000)
//
// # Nested Triggers
//
// A listener may trigger another event with the context it received.
// The bus tracks depth through the context and fails with
// ErrMaxDepthExceeded beyond BusConfig.MaxDepth.
package event
