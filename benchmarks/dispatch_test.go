package benchmarks

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/config"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/controller"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/system"
)

func noopAction(context.Context, httpmsg.Request, httpmsg.Response) (any, error) {
	return "ok", nil
}

func responseAction(_ context.Context, _ httpmsg.Request, res httpmsg.Response) (any, error) {
	return res, nil
}

// BenchmarkNewDispatchEvent measures target validation and event construction.
func BenchmarkNewDispatchEvent(b *testing.B) {
	blog := controller.Actions{"indexAction": noopAction}
	params := map[string]any{"slug": "hello", "page": 2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dispatcher.NewDispatchEvent(blog, "Blog", "index", params)
	}
}

// BenchmarkClassifyResult measures result classification.
func BenchmarkClassifyResult(b *testing.B) {
	res := httpmsg.NewResponse()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = dispatcher.ClassifyResult(res)
		_ = dispatcher.ClassifyResult("raw")
	}
}

// BenchmarkDispatchCycle_Raw runs a full cycle through the bus with a raw result.
func BenchmarkDispatchCycle_Raw(b *testing.B) {
	benchmarkCycle(b, noopAction, 0)
}

// BenchmarkDispatchCycle_Response runs a full cycle ending in a response.
func BenchmarkDispatchCycle_Response(b *testing.B) {
	benchmarkCycle(b, responseAction, 0)
}

// BenchmarkDispatchCycle_10Listeners runs a full cycle with ten extra
// listeners on the dispatch channel.
func BenchmarkDispatchCycle_10Listeners(b *testing.B) {
	benchmarkCycle(b, noopAction, 10)
}

func benchmarkCycle(b *testing.B, action controller.Action, extraListeners int) {
	b.Helper()
	registry := controller.NewRegistry()
	registry.MustRegister("Blog", controller.Actions{"indexAction": action})

	bus := event.NewBus(event.DefaultBusConfig)
	listener := dispatcher.NewListener(registry, bus, httpmsg.ContextProvider{}, dispatcher.WithLogger(nil))
	if err := dispatcher.NewComponent(listener, config.Default().Priorities).Register(bus); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < extraListeners; i++ {
		bus.Attach(dispatcher.EventType, listenerID(i), event.ListenerFunc(func(context.Context, event.Event) error {
			return nil
		}), i)
	}

	r := httptest.NewRequest("GET", "/blog", nil)
	req := httpmsg.NewServerRequest(r, map[string]any{"controller": "Blog"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		srv := httpmsg.NewServer(req, httpmsg.NewResponse())
		ctx := httpmsg.NewContext(context.Background(), srv)
		if err := bus.Trigger(ctx, system.NewEvent(nil)); err != nil {
			b.Fatal(err)
		}
	}
}

func listenerID(i int) string {
	return fmt.Sprintf("listener-%d", i)
}
