package sapodi

import (
	"fmt"
	"reflect"

	"github.com/sapo-creations/sapodi/internal/utils"
)

// Module is one independently loadable unit of types. Types may fail, by
// returning an error or by panicking; either way only this module is lost.
type Module struct {
	Name  string
	Types func() ([]reflect.Type, error)
}

// TypeSource enumerates the modules known to the host
type TypeSource interface {
	Modules() []Module
}

// Static returns a module whose type list is fixed
func Static(name string, types ...reflect.Type) Module {
	return Module{
		Name:  name,
		Types: func() ([]reflect.Type, error) { return types, nil },
	}
}

// TypeOf returns the type descriptor of T
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// TypesOf returns the dynamic types of the given values
func TypesOf(values ...any) []reflect.Type {
	types := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		types = append(types, reflect.TypeOf(v))
	}
	return types
}

// Catalog is an ordered TypeSource. Modules are scanned in the order they
// were added.
type Catalog struct {
	modules *utils.BaseRegistry[string, Module]
}

// NewCatalog creates a catalog holding the given modules
func NewCatalog(modules ...Module) (*Catalog, error) {
	registry := utils.NewBaseRegistry[string, Module]("catalog")
	registry.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Module]("module name"),
		utils.NoDuplicateValidator[string, Module]("module name"),
		func(name string, m Module, _ map[string]Module) error {
			if m.Types == nil {
				return fmt.Errorf("module '%s' has no type loader", name)
			}
			return nil
		},
	))

	c := &Catalog{modules: registry}
	for _, m := range modules {
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a module to the catalog. Names must be unique.
func (c *Catalog) Add(m Module) error {
	return c.modules.Register(m.Name, m)
}

// Remove drops a module by name and reports whether it was present
func (c *Catalog) Remove(name string) bool {
	return c.modules.Delete(name)
}

// Module looks a module up by name
func (c *Catalog) Module(name string) (Module, bool) {
	return c.modules.Get(name)
}

// Names returns the module names in scan order
func (c *Catalog) Names() []string {
	return c.modules.List()
}

// Modules implements TypeSource
func (c *Catalog) Modules() []Module {
	return c.modules.Values()
}

// Len returns the number of modules
func (c *Catalog) Len() int {
	return c.modules.Size()
}

// loadModule runs the module's loader, turning a panic into an error
func loadModule(m Module) (types []reflect.Type, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			types = nil
			err = fmt.Errorf("%w: %v", ErrLoaderPanic, rec)
		}
	}()

	return m.Types()
}
