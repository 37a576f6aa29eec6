package sapodi

import (
	"reflect"

	serrors "github.com/sapo-creations/sapodi/internal/errors"
)

// validateRegistration checks that component can be exposed as abstraction
func validateRegistration(component, abstraction reflect.Type) *ConfigError {
	if abstraction == component {
		return nil
	}

	var base *serrors.BaseError
	switch {
	case abstraction.Kind() != reflect.Interface:
		base = serrors.RegistrationError(component.String(), abstraction.String(),
			"abstraction must be an interface or the component itself").
			Suggest("Use Register[SomeInterface] or Register[" + component.Name() + "]")
	case component.Implements(abstraction) || reflect.PointerTo(component).Implements(abstraction):
		return nil
	default:
		base = serrors.RegistrationError(component.String(), abstraction.String(),
			"neither the component nor a pointer to it implements the abstraction").
			Suggest("Implement the missing methods of " + abstraction.String())
	}

	return &ConfigError{Component: component, err: base}
}

// validateField checks that an injectable field can receive a value
func validateField(component reflect.Type, field Field) *ConfigError {
	if !field.Settable() {
		base := serrors.InjectionError(component.String(), field.Name,
			"field is unexported or reached through an unexported embedded pointer").
			Suggest("Export the field or drop its inject tag")
		return &ConfigError{Component: component, Field: field.Name, err: base}
	}

	if _, err := field.Options(); err != nil {
		base := serrors.InjectionError(component.String(), field.Name, "malformed inject tag")
		base.Cause = err
		return &ConfigError{Component: component, Field: field.Name, err: base}
	}

	return nil
}
