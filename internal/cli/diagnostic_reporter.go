package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sapo-creations/sapodi/internal/errors"
)

// DiagnosticReporter prints marker problems and load failures in a
// user-friendly form
type DiagnosticReporter struct {
	out        io.Writer
	verbose    bool
	noColor    bool
	moduleName string
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:     out,
		verbose: verbose,
		noColor: color.NoColor,
	}
}

// SetColors forces colored output on or off
func (r *DiagnosticReporter) SetColors(enabled bool) {
	r.noColor = !enabled
}

// SetModuleName shortens names inside moduleName in reports
func (r *DiagnosticReporter) SetModuleName(moduleName string) {
	r.moduleName = moduleName
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	r.paint(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", r.relative(message))
}

// ReportProblem prints a marker configuration problem with its location,
// context in verbose mode, and suggestions
func (r *DiagnosticReporter) ReportProblem(err errors.Problem) {
	if pos := err.Position(); pos.IsValid() {
		r.paint(color.Bold).Fprintf(r.out, "%s: ", pos)
	}
	r.paint(color.FgRed).Fprintf(r.out, "%s", r.problemTitle(err.ErrorCode()))
	fmt.Fprintf(r.out, ": %s\n", r.relative(r.message(err)))

	if r.verbose {
		for _, detail := range err.Details() {
			fmt.Fprintf(r.out, "    %s: %s\n", r.formatContextKey(detail.Key), detail.Value)
		}
	}
	for _, suggestion := range err.Suggestions() {
		r.paint(color.FgCyan).Fprint(r.out, "    hint: ")
		fmt.Fprintf(r.out, "%s\n", suggestion)
	}
}

// ReportFailure prints a package or module that was skipped
func (r *DiagnosticReporter) ReportFailure(err error) {
	r.paint(color.FgYellow).Fprint(r.out, "skipped: ")
	fmt.Fprintf(r.out, "%s\n", r.relative(err.Error()))
}

// message returns the error text without the location prefix
func (r *DiagnosticReporter) message(err errors.Problem) string {
	msg := err.Error()
	if pos := err.Position(); pos.IsValid() {
		msg = strings.TrimPrefix(msg, pos.String()+": ")
	}
	return msg
}

func (r *DiagnosticReporter) problemTitle(code errors.ErrorCode) string {
	switch code {
	case errors.RegistrationErrorCode:
		return "invalid registration"
	case errors.InjectionErrorCode:
		return "invalid injection"
	case errors.PackageLoadErrorCode:
		return "load error"
	default:
		return "error"
	}
}

// formatContextKey converts snake_case keys to Title Case
func (r *DiagnosticReporter) formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) relative(s string) string {
	if r.moduleName == "" {
		return s
	}
	return strings.ReplaceAll(s, r.moduleName+"/", "")
}

func (r *DiagnosticReporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}
