// Package routes declares HTTP endpoints as data so domain handlers can
// describe themselves and a caller can register them on any ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/veritas/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group collects routes under a common prefix. Child prefixes are appended
// to their parent's.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups to mux and returns the registered
// patterns in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, g := range groups {
		walk(g, "", func(prefix string, r Route) {
			pattern := r.Method + " " + prefix + r.Pattern
			mux.HandleFunc(pattern, r.Handler)
			patterns = append(patterns, pattern)
		})
	}
	return patterns
}

// Describe adds the documented routes in groups to spec.
func Describe(spec *openapi.Spec, groups ...Group) error {
	var err error
	for _, g := range groups {
		walk(g, "", func(prefix string, r Route) {
			if r.OpenAPI == nil || err != nil {
				return
			}
			err = spec.AddOperation(r.Method, prefix+r.Pattern, r.OpenAPI)
		})
	}
	return err
}

func walk(g Group, parent string, visit func(prefix string, r Route)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(prefix, r)
	}
	for _, child := range g.Children {
		walk(child, prefix, visit)
	}
}
