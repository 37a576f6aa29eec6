package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	serrors "github.com/sapo-creations/sapodi/internal/errors"
	"github.com/sapo-creations/sapodi/internal/models"
	"github.com/sapo-creations/sapodi/internal/parser"
	"github.com/sapo-creations/sapodi/internal/utils"
)

var (
	// ErrProblemsFound is returned by Run when marker problems were reported
	ErrProblemsFound = errors.New("marker configuration problems found")

	// ErrPackagesSkipped is returned by Run when packages failed to load and
	// FailOnSkipped is set
	ErrPackagesSkipped = errors.New("some packages could not be loaded")
)

// Summary contains the results of a check run
type Summary struct {
	ModuleName           string
	PackagesChecked      int
	PackagesSkipped      int
	Components           int
	Registered           int
	Injectable           int
	Problems             int
	InvalidRegistrations int
	InvalidInjections    int
	Packages             []models.PackageMetadata
}

// Checker orchestrates loading, inspection and reporting
type Checker struct {
	config      Config
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
	resolver    *ModuleResolver
	scanner     *PatternScanner
	logger      *slog.Logger
	env         []string
}

// NewChecker creates a new checker
func NewChecker(config Config, diagnostics *utils.DiagnosticSystem, logger *slog.Logger) *Checker {
	return &Checker{
		config:      config,
		diagnostics: diagnostics,
		reporter:    NewDiagnosticReporter(diagnostics.ErrorOutput(), config.Verbose),
		resolver:    NewModuleResolver(utils.NewFileReader()),
		scanner:     NewPatternScanner(),
		logger:      logger,
	}
}

// SetEnv sets the environment passed to the go command
func (c *Checker) SetEnv(env []string) {
	c.env = env
}

// Reporter returns the reporter used for problems
func (c *Checker) Reporter() *DiagnosticReporter {
	return c.reporter
}

// Run checks every package matched by the configured patterns. The summary
// is returned even when problems were found.
func (c *Checker) Run() (*Summary, error) {
	summary := &Summary{}

	moduleName, err := c.resolver.ResolveModuleName(c.config.ModuleName, c.config.Dir)
	if err != nil {
		c.logger.Warn("Could not resolve module name.", "dir", c.config.Dir, "error", err)
		c.reporter.ReportWarning(fmt.Sprintf("could not resolve module name, reporting full package paths: %v", err))
	} else {
		summary.ModuleName = moduleName
		c.reporter.SetModuleName(moduleName)
		c.diagnostics.Verbose("Module: %s", moduleName)
	}

	patterns, err := c.scanner.ResolvePatterns(c.config.Dir, c.config.Patterns)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Loading packages.", "dir", c.config.Dir, "patterns", patterns)
	c.diagnostics.Info("Checking %s", strings.Join(patterns, " "))

	p := parser.NewParser(
		parser.WithMarkerPackage(c.config.MarkerPackage),
		parser.WithTagName(c.config.TagName),
		parser.WithEnv(c.env),
	)
	result, err := p.ParsePackages(c.config.Dir, patterns...)
	if err != nil {
		return nil, err
	}

	summary.Packages = result.Packages
	summary.PackagesChecked = len(result.Packages)
	summary.PackagesSkipped = len(result.Failures)
	summary.Problems = result.Problems.Len()
	summary.InvalidRegistrations = len(result.Problems.ByCode(serrors.RegistrationErrorCode))
	summary.InvalidInjections = len(result.Problems.ByCode(serrors.InjectionErrorCode))

	for _, failure := range result.Failures {
		c.logger.Warn("Skipping package that failed to load.", "error", failure.Unwrap())
		c.reporter.ReportFailure(failure)
	}

	for _, pkg := range result.Packages {
		c.logger.Debug("Inspected package.", "package", pkg.PackagePath, "components", len(pkg.Components))
		summary.Components += len(pkg.Components)
		summary.Registered += len(pkg.Registered())
		summary.Injectable += len(pkg.Injectable())
		c.listComponents(pkg)
	}

	for _, problem := range result.Problems.All() {
		c.reporter.ReportProblem(problem)
	}

	c.logger.Info("Check complete.",
		"packages", summary.PackagesChecked,
		"skipped", summary.PackagesSkipped,
		"components", summary.Components,
		"problems", summary.Problems)

	if summary.PackagesSkipped > 0 && !c.config.FailOnSkipped {
		c.diagnostics.Warn("%d package(s) could not be loaded and were skipped", summary.PackagesSkipped)
	}

	switch {
	case summary.Problems > 0:
		return summary, ErrProblemsFound
	case summary.PackagesSkipped > 0 && c.config.FailOnSkipped:
		return summary, ErrPackagesSkipped
	default:
		return summary, nil
	}
}

func (c *Checker) listComponents(pkg models.PackageMetadata) {
	if len(pkg.Components) == 0 {
		return
	}

	c.diagnostics.Verbose("Package %s", pkg.PackagePath)
	c.diagnostics.Indent()
	for _, component := range pkg.Components {
		if component.IsRegistered() {
			c.diagnostics.Verbose("%s registers as %s", component.Name, component.Abstraction)
		}
		for _, field := range component.Fields {
			c.diagnostics.Verbose("%s.%s injects %s", component.Name, field.Name, field.Type)
		}
	}
	c.diagnostics.Unindent()
}

// IsCheckFailure reports whether err means the check ran but did not pass
func IsCheckFailure(err error) bool {
	return errors.Is(err, ErrProblemsFound) || errors.Is(err, ErrPackagesSkipped)
}
