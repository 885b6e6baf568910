package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Listener handles events delivered by a Bus.
// Returning an error aborts the trigger loop and surfaces the error
// to the caller of Trigger unchanged.
type Listener interface {
	Handle(ctx context.Context, evt Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, evt Event) error

// Handle implements Listener.
func (f ListenerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Typed wraps a function handling one concrete event type.
// Events of any other type are rejected with an *EventError.
func Typed[T Event](fn func(ctx context.Context, evt T) error) Listener {
	return &typedListener[T]{fn: fn}
}

type typedListener[T Event] struct {
	fn func(ctx context.Context, evt T) error
}

func (l *typedListener[T]) Handle(ctx context.Context, evt Event) error {
	typed, ok := evt.(T)
	if !ok {
		var want T
		return &EventError{
			Event:   evt,
			Message: fmt.Sprintf("unexpected event type %T, want %T", evt, want),
		}
	}
	return l.fn(ctx, typed)
}

// Middleware wraps listeners to add cross-cutting concerns.
type Middleware func(next Listener) Listener

// Chain applies middleware in order, with first middleware outermost.
func Chain(listener Listener, middleware ...Middleware) Listener {
	for i := len(middleware) - 1; i >= 0; i-- {
		listener = middleware[i](listener)
	}
	return listener
}

// Recovery converts listener panics into errors.
func Recovery() Middleware {
	return func(next Listener) Listener {
		return ListenerFunc(func(ctx context.Context, evt Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &EventError{
						Event:   evt,
						Message: fmt.Sprintf("listener panic: %v", r),
					}
				}
			}()
			return next.Handle(ctx, evt)
		})
	}
}

// Logging logs every delivery at debug level, failures at error level.
func Logging(logger *slog.Logger) Middleware {
	return func(next Listener) Listener {
		if logger == nil {
			return next
		}
		return ListenerFunc(func(ctx context.Context, evt Event) error {
			start := time.Now()
			err := next.Handle(ctx, evt)
			attrs := []any{
				slog.String("event_id", evt.ID()),
				slog.String("event_type", evt.Type()),
				slog.String("event_name", evt.Name()),
				slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
			}
			if err != nil {
				logger.Error("listener failed", append(attrs, slog.String("error", err.Error()))...)
				return err
			}
			logger.Debug("listener completed", attrs...)
			return nil
		})
	}
}

// Timing reports the duration and outcome of every delivery.
func Timing(onComplete func(evt Event, duration time.Duration, err error)) Middleware {
	return func(next Listener) Listener {
		if onComplete == nil {
			return next
		}
		return ListenerFunc(func(ctx context.Context, evt Event) error {
			start := time.Now()
			err := next.Handle(ctx, evt)
			onComplete(evt, time.Since(start), err)
			return err
		})
	}
}
