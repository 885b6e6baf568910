package dispatcher

import (
	"fmt"
	"reflect"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/controller"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/httpmsg"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/system"
)

// DefaultAction is the action used when a request names none.
const DefaultAction = "index"

// Controllers resolves controllers by registered name.
// *controller.Registry implements it.
type Controllers interface {
	Get(name string) (controller.Controller, error)
}

// ResolveDispatchEvent builds the DispatchEvent a request targets.
//
// The request must carry a non-empty string "controller" attribute,
// otherwise ErrMissingController is returned and controllers is never
// consulted. An absent "action" attribute resolves to defaultAction
// (DefaultAction when empty). Errors from controllers.Get are returned
// unchanged. params are the outer event parameters and flow into the
// DispatchEvent.
func ResolveDispatchEvent(req httpmsg.Request, params map[string]any, controllers Controllers, defaultAction string) (*DispatchEvent, error) {
	raw := req.Attribute(ParamController, nil)
	name, ok := raw.(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: request attribute %q is %s", ErrMissingController, ParamController, describeMissing(raw))
	}

	if defaultAction == "" {
		defaultAction = DefaultAction
	}
	rawAction := req.Attribute(ParamAction, nil)
	if rawAction == nil {
		rawAction = defaultAction
	}

	c, err := controllers.Get(name)
	if err != nil {
		return nil, err
	}

	action, ok := rawAction.(string)
	if !ok {
		return nil, &InvalidTargetError{Check: CheckActionName, Kind: kindOf(rawAction)}
	}
	return NewDispatchEvent(c, name, action, params)
}

// ClassifyResult returns the phase a dispatch result belongs to:
// system.Finish for a complete response, system.Dispatch for anything else.
// A nil pointer of a Response type is not a response.
func ClassifyResult(v any) system.Phase {
	if r, ok := v.(httpmsg.Response); ok && !isNilValue(r) {
		return system.Finish
	}
	return system.Dispatch
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func describeMissing(v any) string {
	switch v.(type) {
	case nil:
		return "not set"
	case string:
		return "empty"
	default:
		return "of type " + kindOf(v)
	}
}
