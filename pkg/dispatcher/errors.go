package dispatcher

import (
	"errors"
	"fmt"
)

// Sentinel errors for a dispatch cycle.
var (
	// ErrMissingController indicates the request carries no controller
	// attribute. The routing layer did not resolve a controller.
	ErrMissingController = errors.New("missing controller")

	// ErrInvalidTarget indicates a DispatchEvent could not be built.
	ErrInvalidTarget = errors.New("invalid dispatch target")

	// ErrActionInvocation indicates the controller action returned an error.
	ErrActionInvocation = errors.New("action invocation failed")

	// ErrUnknownBinding indicates a component binding names a listener or
	// method that does not exist.
	ErrUnknownBinding = errors.New("unknown listener binding")
)

// TargetCheck identifies which DispatchEvent validation failed.
type TargetCheck int

// Validations run by NewDispatchEvent, in order.
const (
	CheckControllerName TargetCheck = iota + 1
	CheckActionName
	CheckController
	CheckAction
)

// String returns the check name.
func (c TargetCheck) String() string {
	switch c {
	case CheckControllerName:
		return "controller name"
	case CheckActionName:
		return "action name"
	case CheckController:
		return "controller"
	case CheckAction:
		return "action"
	default:
		return fmt.Sprintf("TargetCheck(%d)", int(c))
	}
}

// InvalidTargetError describes a rejected dispatch target.
type InvalidTargetError struct {
	// Check is the validation that failed.
	Check TargetCheck
	// Kind is the type of the offending value ("nil", "string", "int", ...).
	Kind string
	// ControllerName is set for CheckAction.
	ControllerName string
	// Method is the missing method for CheckAction.
	Method string
}

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	switch e.Check {
	case CheckControllerName, CheckActionName:
		return fmt.Sprintf("%s: %s must be a non-empty string, got %s", ErrInvalidTarget, e.Check, e.Kind)
	case CheckController:
		return fmt.Sprintf("%s: controller must be a non-nil value, got %s", ErrInvalidTarget, e.Kind)
	case CheckAction:
		return fmt.Sprintf("%s: controller %q (%s) has no method %q",
			ErrInvalidTarget, e.ControllerName, e.Kind, e.Method)
	default:
		return fmt.Sprintf("%s: %s", ErrInvalidTarget, e.Check)
	}
}

// Is reports whether target is ErrInvalidTarget.
func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// ActionError wraps an error returned by a controller action.
type ActionError struct {
	// Controller is the registered controller name.
	Controller string
	// Method is the invoked method ("indexAction").
	Method string
	// Err is the error returned by the action.
	Err error
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s.%s: %v", e.Controller, e.Method, e.Err)
}

// Unwrap returns the action error for errors.Is/As support.
func (e *ActionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrActionInvocation.
func (e *ActionError) Is(target error) bool {
	return target == ErrActionInvocation
}

// kindOf names the dynamic type of v for error messages.
func kindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
