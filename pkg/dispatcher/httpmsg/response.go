package httpmsg

import (
	"net/http"
)

// Response is a complete HTTP response value.
// A controller returning a Response ends the dispatch cycle.
type Response interface {
	StatusCode() int
	Header() http.Header
	Body() []byte
}

// BasicResponse is an immutable Response. The With* methods return copies.
type BasicResponse struct {
	status int
	header http.Header
	body   []byte
}

// Compile-time interface check.
var _ Response = (*BasicResponse)(nil)

// NewResponse creates an empty 200 response.
func NewResponse() *BasicResponse {
	return &BasicResponse{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// StatusCode implements Response.
func (r *BasicResponse) StatusCode() int {
	return r.status
}

// Header implements Response. The returned header is a copy.
func (r *BasicResponse) Header() http.Header {
	return r.header.Clone()
}

// Body implements Response.
func (r *BasicResponse) Body() []byte {
	return r.body
}

// WithStatus returns a copy with the status code replaced.
func (r *BasicResponse) WithStatus(code int) *BasicResponse {
	c := r.clone()
	c.status = code
	return c
}

// WithHeader returns a copy with the header value replaced.
func (r *BasicResponse) WithHeader(key, value string) *BasicResponse {
	c := r.clone()
	c.header.Set(key, value)
	return c
}

// WithBody returns a copy with the body replaced.
func (r *BasicResponse) WithBody(body []byte) *BasicResponse {
	c := r.clone()
	c.body = body
	return c
}

func (r *BasicResponse) clone() *BasicResponse {
	h := r.header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	return &BasicResponse{status: r.status, header: h, body: r.body}
}

// Write sends res to w.
func Write(w http.ResponseWriter, res Response) error {
	for key, values := range res.Header() {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(res.StatusCode())
	_, err := w.Write(res.Body())
	return err
}
