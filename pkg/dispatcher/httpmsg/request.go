// Package httpmsg provides the request and response values controllers
// receive. Requests are immutable: adding attributes returns a new value.
package httpmsg

import (
	"maps"
	"net/http"
)

// Request is the server request seen by the dispatcher and by controllers.
type Request interface {
	// Attribute returns the attribute for key, or def if absent.
	Attribute(key string, def any) any

	// Attributes returns a copy of all attributes.
	Attributes() map[string]any

	// WithAddedAttributes returns a new request with attrs merged over
	// the existing attributes. The receiver is left untouched.
	WithAddedAttributes(attrs map[string]any) Request

	// HTTP returns the underlying net/http request, possibly nil.
	HTTP() *http.Request
}

// ServerRequest is the standard Request implementation.
type ServerRequest struct {
	req   *http.Request
	attrs map[string]any
}

// Compile-time interface check.
var _ Request = (*ServerRequest)(nil)

// NewServerRequest wraps an http.Request with an initial attribute set.
// The attrs map is copied.
func NewServerRequest(req *http.Request, attrs map[string]any) *ServerRequest {
	a := make(map[string]any, len(attrs))
	maps.Copy(a, attrs)
	return &ServerRequest{req: req, attrs: a}
}

// Attribute implements Request.
func (r *ServerRequest) Attribute(key string, def any) any {
	if v, ok := r.attrs[key]; ok {
		return v
	}
	return def
}

// Attributes implements Request.
func (r *ServerRequest) Attributes() map[string]any {
	return maps.Clone(r.attrs)
}

// WithAddedAttributes implements Request.
func (r *ServerRequest) WithAddedAttributes(attrs map[string]any) Request {
	merged := make(map[string]any, len(r.attrs)+len(attrs))
	maps.Copy(merged, r.attrs)
	maps.Copy(merged, attrs)
	return &ServerRequest{req: r.req, attrs: merged}
}

// WithAttribute returns a new request with a single attribute set.
func (r *ServerRequest) WithAttribute(key string, v any) *ServerRequest {
	merged := maps.Clone(r.attrs)
	if merged == nil {
		merged = make(map[string]any, 1)
	}
	merged[key] = v
	return &ServerRequest{req: r.req, attrs: merged}
}

// HTTP implements Request.
func (r *ServerRequest) HTTP() *http.Request {
	return r.req
}
