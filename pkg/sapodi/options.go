package sapodi

import (
	"log/slog"
	"reflect"
)

// Scope decides which enumerated types belong to the component category
// and are inspected by Build
type Scope func(t reflect.Type) bool

// DefaultScope accepts named struct types
func DefaultScope(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() != ""
}

// ImplementsScope accepts named struct types that, directly or through a
// pointer, implement the interface iface
func ImplementsScope(iface reflect.Type) Scope {
	return func(t reflect.Type) bool {
		if !DefaultScope(t) {
			return false
		}
		return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
	}
}

// Option configures a ReflectionCache
type Option func(*ReflectionCache)

// WithLogger sets the structured logger used for scan diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *ReflectionCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithScope restricts Build to the types accepted by scope
func WithScope(scope Scope) Option {
	return func(c *ReflectionCache) {
		if scope != nil {
			c.scope = scope
		}
	}
}

// WithTagName sets the struct tag key of the injection marker.
// It replaces any MarkerQuery set earlier.
func WithTagName(tagName string) Option {
	return func(c *ReflectionCache) { c.query = Markers{TagName: tagName} }
}

// WithMarkerQuery replaces the marker query used by Build and GetInjectFields
func WithMarkerQuery(query MarkerQuery) Option {
	return func(c *ReflectionCache) {
		if query != nil {
			c.query = query
		}
	}
}
