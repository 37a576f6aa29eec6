package cli

import (
	"bytes"
	"fmt"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sapo-creations/sapodi/internal/errors"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewDiagnosticReporter(&buf, verbose)
	r.SetColors(false)
	return r, &buf
}

func TestDiagnosticReporter_ReportProblem(t *testing.T) {
	problem := errors.RegistrationError("github.com/example/app/sensors.Impostor", "github.com/example/app/sensors.Observable",
		"neither the component nor a pointer to it implements the abstraction").
		At(token.Position{Filename: "sensors/impostor.go", Line: 8, Column: 2}).
		Suggest("Add method Observe to sensors.Impostor or *sensors.Impostor")

	t.Run("standard", func(t *testing.T) {
		r, buf := newTestReporter(false)
		r.SetModuleName("github.com/example/app")
		r.ReportProblem(problem)

		assert.Equal(t, "sensors/impostor.go:8:2: invalid registration: "+
			"component 'sensors.Impostor' cannot register as 'sensors.Observable': "+
			"neither the component nor a pointer to it implements the abstraction\n"+
			"    hint: Add method Observe to sensors.Impostor or *sensors.Impostor\n", buf.String())
	})

	t.Run("verbose shows details in order", func(t *testing.T) {
		r, buf := newTestReporter(true)
		r.ReportProblem(problem)

		assert.Contains(t, buf.String(), "    Component: github.com/example/app/sensors.Impostor\n"+
			"    Abstraction: github.com/example/app/sensors.Observable\n")
	})

	t.Run("without location", func(t *testing.T) {
		r, buf := newTestReporter(false)
		r.ReportProblem(errors.InjectionError("app.Controller", "clock", "field is unexported"))

		assert.Equal(t, "invalid injection: field 'app.Controller.clock' cannot be injected: field is unexported\n", buf.String())
	})
}

func TestDiagnosticReporter_Warnings(t *testing.T) {
	r, buf := newTestReporter(false)

	r.ReportWarning("could not resolve module")
	r.ReportFailure(errors.WrapPackageLoadError("example.com/broken", fmt.Errorf("type error")))

	assert.Equal(t, "! could not resolve module\n"+
		"skipped: failed to load package 'example.com/broken': type error\n", buf.String())
}

func TestDiagnosticReporter_FormatContextKey(t *testing.T) {
	r, _ := newTestReporter(false)

	assert.Equal(t, "Missing Method", r.formatContextKey("missing_method"))
	assert.Equal(t, "Owner", r.formatContextKey("owner"))
}
