// Package controller defines what the dispatcher can invoke and where it
// finds it.
//
// A Controller exposes its actions by method name. The method serving an
// action is the action name plus ActionSuffix, so the "index" action is
// served by "indexAction". The table is built when the controller is
// created; the dispatcher checks it before invoking anything.
//
//	blog := controller.Actions{
//	    "indexAction": func(ctx context.Context, req httpmsg.Request, res httpmsg.Response) (any, error) {
//	        return "post list", nil
//	    },
//	}
//
//	controllers := controller.NewRegistry()
//	controllers.MustRegister("Blog", blog)
//
//	c, err := controllers.Get("Blog")
//	if errors.Is(err, controller.ErrUnknownController) {
//	    // not registered
//	}
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. Register at startup,
// Get on every request.
package controller
