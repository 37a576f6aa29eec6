// Package sapodi indexes the dependency-injection markers declared on Go
// types so a container can register components and inject fields without
// reflecting over every type again.
//
// Two markers exist. A struct becomes a registrable component by embedding
// Register[T], where T is the abstraction the component is exposed as:
//
//	type Sensor struct {
//		sapodi.Register[Observable]
//
//		Clock Clock `inject:""`
//	}
//
// A field asks for injection with the `inject` struct tag. The tag value
// may carry options:
//
//	Primary DB     `inject:"name=primary"`
//	Tracer  Tracer `inject:"optional"`
//
// Fields promoted from embedded structs are injectable too; registration is
// not inherited, only a Register[T] embedded directly in the struct counts.
//
// Go has no runtime list of loaded types, so the host describes its code as
// modules in a Catalog. A ReflectionCache scans every module once in Build,
// skipping modules and types that fail to load, and serves the resulting
// indexes afterwards:
//
//	catalog, _ := sapodi.NewCatalog(
//		sapodi.Static("sensors", sapodi.TypeOf[Sensor]()),
//	)
//	cache := sapodi.New(catalog, sapodi.WithLogger(logger))
//	report, err := cache.Build()
//
//	entries, _ := cache.RegistrableComponents()
//	fields := cache.GetInjectFields(reflect.TypeOf(sensor))
package sapodi
