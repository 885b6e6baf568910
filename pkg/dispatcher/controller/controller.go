package controller

import (
	"context"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
)

// ActionSuffix is appended to an action name to form its method name.
const ActionSuffix = "Action"

// ActionMethod returns the method name serving an action ("index" -> "indexAction").
func ActionMethod(action string) string {
	return action + ActionSuffix
}

// Action is one callable operation of a controller.
// It receives the request augmented with the dispatch parameters and
// the current response. Returning an httpmsg.Response ends the cycle;
// any other value is handed back to the outer pipeline.
type Action func(ctx context.Context, req httpmsg.Request, res httpmsg.Response) (any, error)

// Controller exposes its actions by method name.
type Controller interface {
	// Action returns the callable for a method name such as "indexAction".
	Action(method string) (Action, bool)
}

// Actions is a map-backed Controller keyed by method name.
//
//	blog := controller.Actions{
//	    "indexAction": listPosts,
//	    "showAction":  showPost,
//	}
type Actions map[string]Action

// Compile-time interface check.
var _ Controller = Actions(nil)

// Action implements Controller.
func (a Actions) Action(method string) (Action, bool) {
	fn, ok := a[method]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}

// Methods returns the method names of the controller.
func (a Actions) Methods() []string {
	methods := make([]string, 0, len(a))
	for m := range a {
		methods = append(methods, m)
	}
	return methods
}
