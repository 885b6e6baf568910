package controller

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Sentinel errors for registry operations.
var (
	// ErrUnknownController indicates no controller is registered under a name.
	ErrUnknownController = errors.New("unknown controller")

	// ErrInvalidRegistration indicates an empty name or nil controller was registered.
	ErrInvalidRegistration = errors.New("invalid controller registration")
)

// NotFoundError reports a registry lookup miss.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("controller %q is not registered", e.Name)
}

// Is reports whether target is ErrUnknownController.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrUnknownController
}

// Registry is a thread-safe set of named controllers.
// It uses sync.RWMutex for read-heavy workloads: controllers are
// registered at startup and looked up on every request.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Controller),
	}
}

// Register adds or replaces a controller.
func (r *Registry) Register(name string, c Controller) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRegistration)
	}
	if IsNil(c) {
		return fmt.Errorf("%w: nil controller %q", ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[name] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, c Controller) {
	if err := r.Register(name, c); err != nil {
		panic(fmt.Sprintf("controller: %v", err))
	}
}

// Get returns the controller registered under name.
// A miss fails with a *NotFoundError matching ErrUnknownController.
func (r *Registry) Get(name string) (Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return c, nil
}

// Has returns true if a controller is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.controllers[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}

// Merge copies every controller of source into r, replacing same names.
func (r *Registry) Merge(source *Registry) {
	if source == nil || source == r {
		return
	}

	// Snapshot source first so the two locks are never held together.
	source.mu.RLock()
	snapshot := make(map[string]Controller, len(source.controllers))
	for name, c := range source.controllers {
		snapshot[name] = c
	}
	source.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, c := range snapshot {
		r.controllers[name] = c
	}
}

// IsNil reports whether c cannot be invoked: a nil interface or a typed nil.
func IsNil(c Controller) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
