package parser

import (
	"fmt"
	"go/token"

	"github.com/sapo-creations/sapodi/internal/annotations"
	"github.com/sapo-creations/sapodi/internal/errors"
)

// ErrorReporter builds located marker errors with fix suggestions
type ErrorReporter struct {
	fileSet *token.FileSet
	tagName string
}

// NewErrorReporter creates a new error reporter
func NewErrorReporter(fileSet *token.FileSet, tagName string) *ErrorReporter {
	return &ErrorReporter{
		fileSet: fileSet,
		tagName: tagName,
	}
}

// Position resolves pos against the loaded file set
func (r *ErrorReporter) Position(pos token.Pos) token.Position {
	if !pos.IsValid() {
		return token.Position{}
	}
	return r.fileSet.Position(pos)
}

// ReportNonInterfaceAbstraction reports a registration naming a concrete type
// other than the component
func (r *ErrorReporter) ReportNonInterfaceAbstraction(component, abstraction string, pos token.Pos) *errors.BaseError {
	return errors.RegistrationError(component, abstraction, "abstraction must be an interface or the component itself").
		At(r.Position(pos)).
		Suggest(fmt.Sprintf("Register an interface implemented by %s", component)).
		Suggest(fmt.Sprintf("Use Register[%s] to expose the component as itself", shortName(component)))
}

// ReportMissingImplementation reports a registration whose abstraction is not
// implemented by the component or a pointer to it
func (r *ErrorReporter) ReportMissingImplementation(component, abstraction, method string, wrongType bool, pos token.Pos) *errors.BaseError {
	err := errors.RegistrationError(component, abstraction, "neither the component nor a pointer to it implements the abstraction").
		At(r.Position(pos)).
		With("missing_method", method)

	if wrongType {
		return err.Suggest(fmt.Sprintf("Method %s has the wrong signature for %s", method, abstraction))
	}
	return err.Suggest(fmt.Sprintf("Add method %s to %s or *%s", method, shortName(component), shortName(component)))
}

// ReportPointerMarker reports a registration marker embedded through a
// pointer, which is never honoured
func (r *ErrorReporter) ReportPointerMarker(component, abstraction string, pos token.Pos) *errors.BaseError {
	return errors.RegistrationError(component, abstraction, "registration marker is embedded through a pointer").
		At(r.Position(pos)).
		Suggest(fmt.Sprintf("Embed Register[%s] by value", shortName(abstraction)))
}

// ReportUnsettableField reports an injectable field an injector cannot assign
func (r *ErrorReporter) ReportUnsettableField(component, field string, exported bool, pos token.Pos) *errors.BaseError {
	reason := "field is unexported"
	suggestion := fmt.Sprintf("Export the field or drop its %s tag", r.tagName)
	if exported {
		reason = "field is reached through an unexported embedded pointer"
		suggestion = "Embed the struct by value or export its type"
	}

	return errors.InjectionError(component, field, reason).
		At(r.Position(pos)).
		Suggest(suggestion)
}

// ReportMalformedTag reports a tag value the inject grammar rejects
func (r *ErrorReporter) ReportMalformedTag(component, field string, cause error, pos token.Pos) *errors.BaseError {
	err := errors.InjectionError(component, field, fmt.Sprintf("malformed %s tag", r.tagName)).
		At(r.Position(pos))
	err.Cause = cause

	if syntaxErr, ok := cause.(*annotations.SyntaxError); ok && syntaxErr.Suggestion() != "" {
		err = err.Suggest(syntaxErr.Suggestion())
	}
	return err
}

// shortName strips the package path from a qualified type name
func shortName(qualified string) string {
	depth := 0
	for i := len(qualified) - 1; i >= 0; i-- {
		switch qualified[i] {
		case ']':
			depth++
		case '[':
			depth--
		case '/':
			if depth == 0 {
				return qualified[i+1:]
			}
		}
	}
	return qualified
}
