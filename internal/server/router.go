package server

import (
	"net/http"
	"strings"
)

// BasicRouter implements [Router] over an [http.ServeMux] using method patterns ("GET /health").
//
// Middleware wraps the whole mux, so 404 and 405 replies from the mux are logged and recovered like any other.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	chain       http.Handler
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	mux := http.NewServeMux()
	return &BasicRouter{mux: mux, chain: mux}
}

// Use appends middleware. The first one added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
	r.chain = r.Apply(r.mux)
}

// Handle registers handler for method and path. An empty method matches every method.
//
// A request for a registered path with another method gets 405 with an Allow header.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(pattern(method, path), handler)
}

// Handler registers h under every path in [Handler.Routes]. h does its own method routing.
func (r *BasicRouter) Handler(h Handler) {
	for _, route := range h.Routes() {
		r.mux.Handle(route, h)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.chain.ServeHTTP(w, req)
}

// Apply wraps handler with the registered middleware, last added innermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

func pattern(method, path string) string {
	if method == "" {
		return path
	}
	return strings.ToUpper(method) + " " + path
}
