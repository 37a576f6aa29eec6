package sapodi

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sapo-creations/sapodi/internal/utils"
)

// State is the lifecycle state of a ReflectionCache
type State int

const (
	Uninitialized State = iota
	Built
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Built:
		return "built"
	default:
		return "unknown"
	}
}

// Entry is a registrable component and the abstraction it registers as
type Entry struct {
	Component   reflect.Type
	Abstraction reflect.Type
}

// String returns "Component as Abstraction"
func (e Entry) String() string {
	return fmt.Sprintf("%s as %s", e.Component, e.Abstraction)
}

// snapshot is everything one Build publishes. It is never mutated after
// publication except for lazy fills of the field cache.
type snapshot struct {
	state       State
	registrable []Entry
	injectable  []reflect.Type
	fields      *utils.Cache[reflect.Type, []Field]
	report      *BuildReport
}

// ReflectionCache indexes registration and injection markers across the
// types of a TypeSource.
//
// Build scans every module once and publishes both indexes with a single
// atomic switch, so readers see either the previous build or the new one.
// After Build the indexes are immutable and safe for concurrent reads.
// GetInjectFields may be called concurrently at any time; concurrent
// first-time misses for the same type compute its fields once.
type ReflectionCache struct {
	source TypeSource
	query  MarkerQuery
	scope  Scope
	logger *slog.Logger

	buildMu sync.Mutex
	current atomic.Pointer[snapshot]
}

// New creates an uninitialized cache over source
func New(source TypeSource, opts ...Option) *ReflectionCache {
	c := &ReflectionCache{
		source: source,
		query:  Markers{},
		scope:  DefaultScope,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.current.Store(&snapshot{
		state:  Uninitialized,
		fields: utils.NewCache[reflect.Type, []Field](),
	})
	return c
}

// State returns the lifecycle state
func (c *ReflectionCache) State() State {
	return c.current.Load().state
}

// Report returns the report of the last Build, or nil before the first one
func (c *ReflectionCache) Report() *BuildReport {
	return c.current.Load().report
}

// RegistrableComponents returns the registration entries found by the last
// Build, in scan order. It fails with ErrNotBuilt before the first Build.
func (c *ReflectionCache) RegistrableComponents() ([]Entry, error) {
	snap := c.current.Load()
	if snap.state != Built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(snap.registrable), nil
}

// InjectableComponents returns the types with at least one injectable field
// found by the last Build, in scan order. It fails with ErrNotBuilt before
// the first Build.
//
// Types filled in later by GetInjectFields are not added here.
func (c *ReflectionCache) InjectableComponents() ([]reflect.Type, error) {
	snap := c.current.Load()
	if snap.state != Built {
		return nil, ErrNotBuilt
	}
	return slices.Clone(snap.injectable), nil
}

// GetInjectFields returns the injectable fields of t, computing and caching
// them on the first request. The result may be empty. Callers get their own
// copy.
func (c *ReflectionCache) GetInjectFields(t reflect.Type) []Field {
	t = componentType(t)
	if t == nil {
		return nil
	}

	fields, _ := c.current.Load().fields.GetOrCompute(t, c.collectFields)
	return cloneFields(fields)
}

// HasRegistrationMarker asks the marker query directly, leaving the
// indexes untouched
func (c *ReflectionCache) HasRegistrationMarker(t reflect.Type) (reflect.Type, bool) {
	return c.query.HasRegistrationMarker(t)
}

// FieldCacheStats returns statistics of the current field cache
func (c *ReflectionCache) FieldCacheStats() utils.CacheStats {
	return c.current.Load().fields.GetStats()
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Index = slices.Clone(f.Index)
		out[i] = f
	}
	return out
}

func (c *ReflectionCache) collectFields(t reflect.Type) []Field {
	return slices.Collect(c.query.InjectableFields(t))
}

// scanResult accumulates one Build
type scanResult struct {
	registrable []Entry
	injectable  []reflect.Type
	fields      map[reflect.Type][]Field
	seen        map[reflect.Type]bool
	report      *BuildReport
}

// Build scans every module of the source and replaces both indexes and the
// field cache. Modules and types that cannot be inspected are skipped and
// listed in the report. The returned error joins the configuration errors;
// the indexes are published even when it is non-nil.
func (c *ReflectionCache) Build() (*BuildReport, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	report := &BuildReport{ID: uuid.New(), StartedAt: time.Now()}
	logger := c.logger.With("build", report.ID.String())
	logger.Debug("Starting reflection scan.")

	res := &scanResult{
		fields: make(map[reflect.Type][]Field),
		seen:   make(map[reflect.Type]bool),
		report: report,
	}

	for _, module := range c.source.Modules() {
		types, err := loadModule(module)
		if err != nil {
			report.Failures = append(report.Failures, &ScanFailure{Module: module.Name, Err: err})
			logger.Warn("Skipping module that failed to load.", "module", module.Name, "error", err)
			continue
		}
		report.Modules++

		for _, t := range types {
			if err := c.scanType(t, res); err != nil {
				report.Failures = append(report.Failures, &ScanFailure{Module: module.Name, Type: t, Err: err})
				logger.Warn("Skipping type that could not be inspected.", "module", module.Name, "type", fmt.Sprint(t), "error", err)
			}
		}
	}

	report.Registrable = len(res.registrable)
	report.Injectable = len(res.injectable)
	report.Duration = time.Since(report.StartedAt)

	c.current.Store(&snapshot{
		state:       Built,
		registrable: res.registrable,
		injectable:  res.injectable,
		fields:      utils.NewCacheFrom(res.fields),
		report:      report,
	})

	for _, cfgErr := range report.ConfigErrors {
		logger.Error("Invalid marker configuration.", "component", cfgErr.Component.String(), "error", cfgErr)
	}
	logger.Info("Reflection scan complete.",
		"modules", report.Modules,
		"types", report.TypesScanned,
		"registrable", report.Registrable,
		"injectable", report.Injectable,
		"skipped", len(report.Failures),
		"duration", report.Duration)

	return report, report.Err()
}

// scanType inspects one type and folds it into res. Nothing is recorded
// for a type whose inspection fails part way.
func (c *ReflectionCache) scanType(t reflect.Type, res *scanResult) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while inspecting type: %v", rec)
		}
	}()

	if t == nil {
		return fmt.Errorf("nil type descriptor")
	}
	t = componentType(t)
	if res.seen[t] || !c.scope(t) {
		return nil
	}

	var (
		entry     *Entry
		problems  []*ConfigError
		abstract  reflect.Type
		hasMarker bool
	)

	if abstract, hasMarker = c.query.HasRegistrationMarker(t); hasMarker {
		if cfgErr := validateRegistration(t, abstract); cfgErr != nil {
			problems = append(problems, cfgErr)
		}
		entry = &Entry{Component: t, Abstraction: abstract}
	}

	fields := c.collectFields(t)
	for _, field := range fields {
		if cfgErr := validateField(t, field); cfgErr != nil {
			problems = append(problems, cfgErr)
		}
	}

	res.seen[t] = true
	res.report.TypesScanned++
	res.report.ConfigErrors = append(res.report.ConfigErrors, problems...)
	if entry != nil {
		res.registrable = append(res.registrable, *entry)
	}
	if len(fields) > 0 {
		res.fields[t] = fields
		res.injectable = append(res.injectable, t)
	}
	return nil
}
