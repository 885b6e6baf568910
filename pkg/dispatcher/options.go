package dispatcher

import (
	"log/slog"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/journal"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/observability"
)

// listenerConfig holds the optional collaborators of a Listener.
type listenerConfig struct {
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	journal       journal.Store
	defaultAction string
}

// defaultListenerConfig returns a configuration with observability disabled
// except logging to slog.Default().
func defaultListenerConfig() listenerConfig {
	return listenerConfig{
		logger:        slog.Default(),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		defaultAction: DefaultAction,
	}
}

// Option configures a Listener.
type Option func(*listenerConfig)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *listenerConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for dispatch cycles and actions.
//
// Example:
//
//	l := dispatcher.NewListener(reg, bus, httpmsg.ContextProvider{},
//	    dispatcher.WithMetrics(true))
func WithMetrics(enabled bool) Option {
	return func(c *listenerConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *listenerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans around dispatch cycles and actions.
func WithTracing(enabled bool) Option {
	return func(c *listenerConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal records every dispatch cycle in store.
// Journal write failures are logged and never fail the request.
func WithJournal(store journal.Store) Option {
	return func(c *listenerConfig) {
		c.journal = store
	}
}

// WithDefaultAction sets the action used when the request names none.
// Default: "index"
func WithDefaultAction(action string) Option {
	return func(c *listenerConfig) {
		if action != "" {
			c.defaultAction = action
		}
	}
}
