package httpmsg

import (
	"context"
	"errors"
)

// ErrNoServer indicates no request/response pair is available.
var ErrNoServer = errors.New("no server request in context")

// Server is the request/response pair of one inbound request.
type Server struct {
	request  Request
	response Response
}

// NewServer pairs a request with the response controllers start from.
func NewServer(req Request, res Response) *Server {
	return &Server{request: req, response: res}
}

// Request returns the current request.
func (s *Server) Request() Request {
	return s.request
}

// Response returns the current response.
func (s *Server) Response() Response {
	return s.response
}

// Provider supplies the Server of the request being dispatched.
type Provider interface {
	Server(ctx context.Context) (*Server, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*Server, error)

// Server implements Provider.
func (f ProviderFunc) Server(ctx context.Context) (*Server, error) {
	return f(ctx)
}

// Static returns a Provider that always yields srv.
func Static(srv *Server) Provider {
	return ProviderFunc(func(context.Context) (*Server, error) {
		if srv == nil {
			return nil, ErrNoServer
		}
		return srv, nil
	})
}

type serverKey struct{}

// NewContext returns a context carrying srv.
func NewContext(ctx context.Context, srv *Server) context.Context {
	return context.WithValue(ctx, serverKey{}, srv)
}

// FromContext returns the Server stored by NewContext.
func FromContext(ctx context.Context) (*Server, bool) {
	srv, ok := ctx.Value(serverKey{}).(*Server)
	return srv, ok && srv != nil
}

// ContextProvider reads the Server from the context of each call.
// It is the provider to use when one listener serves concurrent requests.
type ContextProvider struct{}

// Server implements Provider.
func (ContextProvider) Server(ctx context.Context) (*Server, error) {
	srv, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoServer
	}
	return srv, nil
}
