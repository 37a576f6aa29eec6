package sapodi

import (
	"fmt"
	"reflect"

	"github.com/sapo-creations/sapodi/internal/annotations"
)

// InjectOptions are the options carried by an inject tag value
type InjectOptions = annotations.InjectOptions

// Field describes one field carrying an injection marker
type Field struct {
	Name  string       // Go field name
	Type  reflect.Type // declared type of the field
	Owner reflect.Type // struct type that declares the field
	Index []int        // path for reflect.Value.FieldByIndex from the scanned type
	Tag   string       // raw tag value

	settable bool
}

// Settable reports whether an injector can assign the field through
// reflection: the field is exported and no unexported embedded pointer
// lies on its path.
func (f Field) Settable() bool {
	return f.settable
}

// Options parses the tag value
func (f Field) Options() (InjectOptions, error) {
	return annotations.DefaultTagParser().Parse(f.Tag)
}

// String returns Owner.Name
func (f Field) String() string {
	if f.Owner == nil {
		return f.Name
	}
	return fmt.Sprintf("%s.%s", f.Owner.Name(), f.Name)
}
