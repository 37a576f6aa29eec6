package errors

import (
	"fmt"
	"go/token"
	"strings"
)

// ErrorCode classifies a framework error
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Loading
	ScanErrorCode
	PackageLoadErrorCode
	FileSystemErrorCode

	// Markers
	RegistrationErrorCode
	InjectionErrorCode

	ConfigurationErrorCode
)

var codeNames = [...]string{
	UnknownErrorCode:       "UnknownError",
	ScanErrorCode:          "ScanError",
	PackageLoadErrorCode:   "PackageLoadError",
	FileSystemErrorCode:    "FileSystemError",
	RegistrationErrorCode:  "RegistrationError",
	InjectionErrorCode:     "InjectionError",
	ConfigurationErrorCode: "ConfigurationError",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[UnknownErrorCode]
	}
	return codeNames[c]
}

// Detail is a key/value pair attached to an error
type Detail struct {
	Key   string
	Value string
}

// Problem is a coded error that may point at source and carry fix hints
type Problem interface {
	error
	ErrorCode() ErrorCode
	Position() token.Position
	Details() []Detail
	Suggestions() []string
}

// BaseError is the Problem implementation shared by every package
type BaseError struct {
	Code    ErrorCode
	Message string
	Pos     token.Position // zero value when there is no source position
	Cause   error

	details []Detail
	hints   []string
}

// New creates an error with the given code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, args ...any) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an error caused by cause
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause}
}

func (e *BaseError) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Position() token.Position { return e.Pos }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Details returns the attached key/value pairs in the order they were added
func (e *BaseError) Details() []Detail { return e.details }

// Suggestions returns hints for fixing the error
func (e *BaseError) Suggestions() []string { return e.hints }

// At sets the source position
func (e *BaseError) At(pos token.Position) *BaseError {
	e.Pos = pos
	return e
}

// With attaches a detail; an empty value is skipped
func (e *BaseError) With(key, value string) *BaseError {
	if value != "" {
		e.details = append(e.details, Detail{Key: key, Value: value})
	}
	return e
}

// Suggest appends a fix hint
func (e *BaseError) Suggest(hint string) *BaseError {
	e.hints = append(e.hints, hint)
	return e
}

// Problems collects marker problems in the order they were found. The zero
// value is ready to use.
type Problems struct {
	list []Problem
}

func (p *Problems) Add(problem Problem) {
	p.list = append(p.list, problem)
}

func (p *Problems) Len() int {
	return len(p.list)
}

// All returns every collected problem
func (p *Problems) All() []Problem {
	return p.list
}

// ByCode returns the problems carrying code
func (p *Problems) ByCode(code ErrorCode) []Problem {
	var out []Problem
	for _, problem := range p.list {
		if problem.ErrorCode() == code {
			out = append(out, problem)
		}
	}
	return out
}
