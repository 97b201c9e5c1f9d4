package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// BasicRouter dispatches on path through an [http.ServeMux] and on method through its own table,
// so one path can serve several methods.
type BasicRouter struct {
	mux         *http.ServeMux
	routes      map[string]methodTable
	middlewares []Middleware
}

// methodTable maps an upper-case method to its wrapped handler.
type methodTable map[string]http.Handler

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux(), routes: map[string]methodTable{}}
}

// Use appends middleware. It only wraps routes registered afterwards.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path. GET routes also answer HEAD.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	table, ok := r.routes[path]
	if !ok {
		table = methodTable{}
		r.routes[path] = table
		r.mux.Handle(path, table)
	}
	table[strings.ToUpper(method)] = r.Apply(handler)
}

// Handler mounts h on every path it reports, for any method.
func (r *BasicRouter) Handler(h Handler) {
	wrapped := r.Apply(h)
	for _, route := range h.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler so the first middleware passed to Use runs outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}

func (t methodTable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := t[req.Method]; ok {
		h.ServeHTTP(w, req)
		return
	}
	if h, ok := t[http.MethodGet]; ok && req.Method == http.MethodHead {
		h.ServeHTTP(w, req)
		return
	}

	allowed := lo.Keys(map[string]http.Handler(t))
	slices.Sort(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
