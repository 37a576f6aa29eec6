package sapodi

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	serrors "github.com/sapo-creations/sapodi/internal/errors"
)

var (
	// ErrNotBuilt is returned by index queries made before the first Build
	ErrNotBuilt = errors.New("sapodi: reflection cache has not been built")

	// ErrLoaderPanic wraps a panic raised by a module's type loader
	ErrLoaderPanic = errors.New("sapodi: module loader panicked")
)

// ScanFailure records a module or type skipped during Build
type ScanFailure struct {
	Module string
	Type   reflect.Type // nil when the whole module failed to load
	Err    error
}

func (f *ScanFailure) Error() string {
	typeName := ""
	if f.Type != nil {
		typeName = f.Type.String()
	}
	return serrors.WrapScanError(f.Module, typeName, f.Err).Error()
}

func (f *ScanFailure) Unwrap() error {
	return f.Err
}

// ConfigError reports a marker that is present but cannot be honoured,
// such as a registration naming an abstraction the component does not
// implement.
type ConfigError struct {
	Component reflect.Type
	Field     string // empty for registration problems
	err       *serrors.BaseError
}

func (e *ConfigError) Error() string {
	return e.err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.err.Unwrap()
}

// Suggestions returns hints for fixing the problem
func (e *ConfigError) Suggestions() []string {
	return e.err.Suggestions()
}

// IsRegistration reports whether the error concerns a registration marker
func (e *ConfigError) IsRegistration() bool {
	return e.err.ErrorCode() == serrors.RegistrationErrorCode
}

// BuildReport summarises one Build
type BuildReport struct {
	ID           uuid.UUID
	StartedAt    time.Time
	Duration     time.Duration
	Modules      int // modules whose types loaded
	TypesScanned int // in-scope types inspected
	Registrable  int
	Injectable   int
	Failures     []*ScanFailure
	ConfigErrors []*ConfigError
}

// Partial reports whether some modules or types were skipped
func (r *BuildReport) Partial() bool {
	return len(r.Failures) > 0
}

// Err joins the configuration errors, or returns nil
func (r *BuildReport) Err() error {
	if len(r.ConfigErrors) == 0 {
		return nil
	}
	errs := make([]error, len(r.ConfigErrors))
	for i, err := range r.ConfigErrors {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// String returns a one-line summary
func (r *BuildReport) String() string {
	return fmt.Sprintf("build %s: %d modules, %d types, %d registrable, %d injectable, %d skipped, %d config errors in %s",
		r.ID, r.Modules, r.TypesScanned, r.Registrable, r.Injectable, len(r.Failures), len(r.ConfigErrors), r.Duration)
}
