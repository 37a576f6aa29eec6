package sapodi_test

import (
	"fmt"
	"reflect"

	"github.com/sapo-creations/sapodi/pkg/sapodi"
)

type Greeter interface{ Greet() string }

type English struct {
	sapodi.Register[Greeter]
}

func (English) Greet() string { return "hello" }

type Welcome struct {
	Greeter Greeter `inject:""`
	Name    string
}

func Example() {
	catalog, err := sapodi.NewCatalog(
		sapodi.Static("greetings", sapodi.TypeOf[English](), sapodi.TypeOf[Welcome]()),
	)
	if err != nil {
		panic(err)
	}

	cache := sapodi.New(catalog)
	if _, err := cache.Build(); err != nil {
		panic(err)
	}

	entries, _ := cache.RegistrableComponents()
	for _, entry := range entries {
		fmt.Println(entry)
	}

	injectable, _ := cache.InjectableComponents()
	for _, t := range injectable {
		for _, field := range cache.GetInjectFields(t) {
			fmt.Printf("%s needs %s\n", field, field.Type)
		}
	}

	// Output:
	// sapodi_test.English as sapodi_test.Greeter
	// Welcome.Greeter needs sapodi_test.Greeter
}

// A container resolves each field through its index path
func ExampleReflectionCache_GetInjectFields() {
	catalog, _ := sapodi.NewCatalog()
	cache := sapodi.New(catalog)
	bindings := map[reflect.Type]reflect.Value{
		sapodi.TypeOf[Greeter](): reflect.ValueOf(English{}),
	}

	target := &Welcome{Name: "Ada"}
	v := reflect.ValueOf(target).Elem()
	for _, field := range cache.GetInjectFields(v.Type()) {
		if value, ok := bindings[field.Type]; ok && field.Settable() {
			v.FieldByIndex(field.Index).Set(value)
		}
	}

	fmt.Println(target.Greeter.Greet(), target.Name)
	// Output: hello Ada
}
