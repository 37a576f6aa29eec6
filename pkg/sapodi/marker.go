package sapodi

import (
	"iter"
	"reflect"
)

// DefaultTagName is the struct tag key that marks a field for injection
const DefaultTagName = "inject"

// Register marks the struct that embeds it as a component exposed under
// the abstraction T. Only a direct (depth 0, non-pointer) embedding counts.
type Register[T any] struct{}

func (Register[T]) abstraction() reflect.Type { return reflect.TypeFor[T]() }

func (Register[T]) self() reflect.Type { return reflect.TypeFor[Register[T]]() }

// registration is satisfied by every Register instantiation, and by any
// struct embedding one through method promotion. self tells them apart.
type registration interface {
	abstraction() reflect.Type
	self() reflect.Type
}

var registrationType = reflect.TypeFor[registration]()

// Kind selects the marker a query asks about
type Kind int

const (
	RegistrationMarker Kind = iota
	InjectionMarker
)

// String returns the string representation of the marker kind
func (k Kind) String() string {
	switch k {
	case RegistrationMarker:
		return "register"
	case InjectionMarker:
		return "inject"
	default:
		return "unknown"
	}
}

// Marker is the metadata record returned by Query
type Marker struct {
	Kind        Kind
	Abstraction reflect.Type // set for RegistrationMarker
	Fields      []Field      // set for InjectionMarker
}

// MarkerQuery answers marker questions about a single type. Implementations
// must be pure: the same type always yields the same answer.
type MarkerQuery interface {
	// HasRegistrationMarker reports the abstraction named by the type's own
	// registration marker.
	HasRegistrationMarker(t reflect.Type) (abstraction reflect.Type, ok bool)

	// InjectableFields returns the fields carrying an injection marker,
	// recomputed on every iteration.
	InjectableFields(t reflect.Type) iter.Seq[Field]
}

// Markers is the reflection based MarkerQuery
type Markers struct {
	// TagName overrides DefaultTagName when set
	TagName string
}

var defaultMarkers = Markers{}

// HasRegistrationMarker reports whether t embeds Register[A] directly and
// returns A. Pointer types are looked through once.
func HasRegistrationMarker(t reflect.Type) (reflect.Type, bool) {
	return defaultMarkers.HasRegistrationMarker(t)
}

// InjectableFields returns the injectable fields of t using the default tag
func InjectableFields(t reflect.Type) iter.Seq[Field] {
	return defaultMarkers.InjectableFields(t)
}

// Query asks q about one marker kind on t and returns its metadata record
func Query(q MarkerQuery, t reflect.Type, kind Kind) (Marker, bool) {
	switch kind {
	case RegistrationMarker:
		abstraction, ok := q.HasRegistrationMarker(t)
		if !ok {
			return Marker{}, false
		}
		return Marker{Kind: kind, Abstraction: abstraction}, true
	case InjectionMarker:
		var fields []Field
		for field := range q.InjectableFields(t) {
			fields = append(fields, field)
		}
		if len(fields) == 0 {
			return Marker{}, false
		}
		return Marker{Kind: kind, Fields: fields}, true
	default:
		return Marker{}, false
	}
}

func (m Markers) tagName() string {
	if m.TagName == "" {
		return DefaultTagName
	}
	return m.TagName
}

// HasRegistrationMarker implements MarkerQuery
func (m Markers) HasRegistrationMarker(t reflect.Type) (reflect.Type, bool) {
	t = componentType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct || !f.Type.Implements(registrationType) {
			continue
		}
		marker := reflect.Zero(f.Type).Interface().(registration)
		// A promoted marker belongs to the embedded type, not to t
		if marker.self() != f.Type {
			continue
		}
		return marker.abstraction(), true
	}
	return nil, false
}

// InjectableFields implements MarkerQuery. Fields are produced in
// declaration order with embedded structs expanded in place. A field that
// carries the tag is never descended into. Embedding cycles through
// pointers are cut at the first repetition.
func (m Markers) InjectableFields(t reflect.Type) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		root := componentType(t)
		if root == nil || root.Kind() != reflect.Struct {
			return
		}
		w := fieldWalker{tag: m.tagName(), yield: yield, visiting: map[reflect.Type]bool{root: true}}
		w.walk(root, nil, true)
	}
}

type fieldWalker struct {
	tag      string
	yield    func(Field) bool
	visiting map[reflect.Type]bool
}

func (w *fieldWalker) walk(owner reflect.Type, prefix []int, reachable bool) bool {
	for i := 0; i < owner.NumField(); i++ {
		sf := owner.Field(i)

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		if value, ok := sf.Tag.Lookup(w.tag); ok {
			field := Field{
				Name:     sf.Name,
				Type:     sf.Type,
				Owner:    owner,
				Index:    index,
				Tag:      value,
				settable: reachable && sf.IsExported(),
			}
			if !w.yield(field) {
				return false
			}
			continue
		}

		if !sf.Anonymous {
			continue
		}

		embedded := sf.Type
		viaPointer := embedded.Kind() == reflect.Pointer
		if viaPointer {
			embedded = embedded.Elem()
		}
		if embedded.Kind() != reflect.Struct || w.visiting[embedded] {
			continue
		}

		// An unexported embedded pointer cannot be allocated by the injector
		next := reachable && (sf.IsExported() || !viaPointer)

		w.visiting[embedded] = true
		ok := w.walk(embedded, index, next)
		delete(w.visiting, embedded)
		if !ok {
			return false
		}
	}
	return true
}

// componentType normalises *T to T
func componentType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
