/*
Package dispatcher runs controller actions through a two-phase event protocol.

# Overview

A request reaches the dispatcher as a system event in the dispatch phase.
The routing layer upstream has already stored the target controller and
action as request attributes. The dispatcher then:

 1. resolves the controller from the registry (OnDispatch)
 2. builds a DispatchEvent and triggers it on the bus
 3. invokes "<action>Action" on the controller (DoDispatch)
 4. stores the action result on the system event, under system.Finish when
    it is a complete httpmsg.Response and under system.Dispatch otherwise

Listeners attached to EventType, or to a specific "<controller>@<action>"
name, run before or after DoDispatch according to their priority.

# Basic Usage

	blog := controller.Actions{
	    "indexAction": func(ctx context.Context, req httpmsg.Request, res httpmsg.Response) (any, error) {
	        return res.(*httpmsg.BasicResponse).WithBody([]byte("posts")), nil
	    },
	}

	registry := controller.NewRegistry()
	registry.MustRegister("Blog", blog)

	bus := event.NewBus(event.DefaultBusConfig)
	listener := dispatcher.NewListener(registry, bus, httpmsg.ContextProvider{})
	if err := dispatcher.NewComponent(listener, config.Default().Priorities).Register(bus); err != nil {
	    log.Fatal(err)
	}

	// Per request:
	req := httpmsg.NewServerRequest(r, map[string]any{"controller": "Blog"})
	ctx := httpmsg.NewContext(r.Context(), httpmsg.NewServer(req, httpmsg.NewResponse()))
	outer := system.NewEvent(nil)
	if err := bus.Trigger(ctx, outer); err != nil {
	    // errors.Is(err, dispatcher.ErrMissingController), ...
	}
	res, _ := outer.Result(system.Finish)

# Errors

Every failure is returned to the caller of the system event trigger:

  - ErrMissingController: the request has no controller attribute
  - controller.ErrUnknownController: the registry has no such controller
  - ErrInvalidTarget: an *InvalidTargetError naming the failed check
  - ErrActionInvocation: an *ActionError wrapping the action's error

The dispatcher never retries and has no fallback controller.

# Observability

Logging, metrics, tracing and the dispatch journal are configured with
options:

	dispatcher.NewListener(registry, bus, httpmsg.ContextProvider{},
	    dispatcher.WithLogger(logger),
	    dispatcher.WithMetrics(true),
	    dispatcher.WithTracing(true),
	    dispatcher.WithJournal(store),
	)
*/
package dispatcher
