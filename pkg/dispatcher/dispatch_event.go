package dispatcher

import (
	"maps"

	"github.com/google/uuid"

	"github.com/randalmurphal/dispatcher/pkg/dispatcher/controller"
	"github.com/randalmurphal/dispatcher/pkg/dispatcher/event"
)

// EventType is the channel DispatchEvents are triggered on.
const EventType = "dispatcher.dispatch"

// Parameter keys merged into every DispatchEvent.
const (
	ParamController = "controller"
	ParamAction     = "action"
)

// DispatchEvent asks the bus to run one controller action.
//
// A DispatchEvent is only obtainable through NewDispatchEvent, so its
// target is always valid. Everything except the result slot and the
// propagation flag is fixed at construction.
type DispatchEvent struct {
	event.Propagation

	id             string
	controller     controller.Controller
	controllerName string
	actionName     string
	name           string
	params         map[string]any
	result         any
}

// Compile-time interface check.
var _ event.Event = (*DispatchEvent)(nil)

// NewDispatchEvent validates a dispatch target and builds its event.
//
// Checks run in order: controller name, action name, controller, and
// finally that the controller exposes ActionMethod(actionName). The first
// failure is returned as an *InvalidTargetError.
//
// params is copied; the controller and action keys are overwritten.
func NewDispatchEvent(c controller.Controller, controllerName, actionName string, params map[string]any) (*DispatchEvent, error) {
	if controllerName == "" {
		return nil, &InvalidTargetError{Check: CheckControllerName, Kind: "empty string"}
	}
	if actionName == "" {
		return nil, &InvalidTargetError{Check: CheckActionName, Kind: "empty string"}
	}
	if controller.IsNil(c) {
		return nil, &InvalidTargetError{Check: CheckController, Kind: kindOf(c)}
	}
	method := controller.ActionMethod(actionName)
	if _, ok := c.Action(method); !ok {
		return nil, &InvalidTargetError{
			Check:          CheckAction,
			Kind:           kindOf(c),
			ControllerName: controllerName,
			Method:         method,
		}
	}

	p := make(map[string]any, len(params)+2)
	maps.Copy(p, params)
	p[ParamController] = controllerName
	p[ParamAction] = actionName

	return &DispatchEvent{
		id:             uuid.New().String(),
		controller:     c,
		controllerName: controllerName,
		actionName:     actionName,
		name:           controllerName + "@" + actionName,
		params:         p,
	}, nil
}

// ID returns the dispatch cycle identifier.
func (e *DispatchEvent) ID() string { return e.id }

// Type returns EventType.
func (e *DispatchEvent) Type() string { return EventType }

// Name returns "<controller>@<action>".
func (e *DispatchEvent) Name() string { return e.name }

// Context returns the target controller.
func (e *DispatchEvent) Context() any { return e.controller }

// Params returns a copy of the dispatch parameters.
func (e *DispatchEvent) Params() map[string]any { return maps.Clone(e.params) }

// Param returns a single parameter, or nil if absent.
func (e *DispatchEvent) Param(key string) any { return e.params[key] }

// Controller returns the target controller.
func (e *DispatchEvent) Controller() controller.Controller { return e.controller }

// ControllerName returns the registered controller name.
func (e *DispatchEvent) ControllerName() string { return e.controllerName }

// ActionName returns the action name ("index").
func (e *DispatchEvent) ActionName() string { return e.actionName }

// ActionMethod returns the method serving the action ("indexAction").
func (e *DispatchEvent) ActionMethod() string { return controller.ActionMethod(e.actionName) }

// Result returns the value produced by the action, nil until it ran.
func (e *DispatchEvent) Result() any { return e.result }

// SetResult stores the action's return value.
func (e *DispatchEvent) SetResult(v any) { e.result = v }
