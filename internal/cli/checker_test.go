package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapo-creations/sapodi/internal/logging"
	"github.com/sapo-creations/sapodi/internal/utils"
)

var checkerFixture = map[string]string{
	"go.mod": "module example.com/shop\n\ngo 1.22\n",
	"di/di.go": `package di

type Register[T any] struct{}
`,
	"orders/orders.go": `package orders

import "example.com/shop/di"

type Repository interface{ Find(id string) string }

type Store struct {
	di.Register[Repository]
}

func (*Store) Find(id string) string { return id }

type Service struct {
	Repo Repository ` + "`inject:\"\"`" + `
}
`,
	"billing/billing.go": `package billing

import "example.com/shop/di"

type Gateway interface{ Charge(cents int) error }

type Fake struct {
	di.Register[Gateway]
	Retries int ` + "`inject:\"optional=maybe\"`" + `
}
`,
}

func writeCheckerFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func newTestChecker(dir string, patterns ...string) (*Checker, *bytes.Buffer, *bytes.Buffer) {
	config := DefaultConfig()
	config.Dir = dir
	config.Patterns = patterns
	config.MarkerPackage = "example.com/shop/di"
	config.Verbose = true

	var out, errOut bytes.Buffer
	diagnostics := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, &out, &errOut)
	diagnostics.SetColors(false)
	diagnostics.SetShowTime(false)

	checker := NewChecker(config, diagnostics, logging.Discard())
	checker.Reporter().SetColors(false)
	checker.SetEnv(append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOPROXY=off"))
	return checker, &out, &errOut
}

func TestChecker_Run(t *testing.T) {
	dir := writeCheckerFixture(t, checkerFixture)

	t.Run("problems found", func(t *testing.T) {
		checker, out, errOut := newTestChecker(dir, "./...")

		summary, err := checker.Run()
		require.ErrorIs(t, err, ErrProblemsFound)
		assert.True(t, IsCheckFailure(err))

		assert.Equal(t, "example.com/shop", summary.ModuleName)
		assert.Equal(t, 3, summary.PackagesChecked)
		assert.Equal(t, 0, summary.PackagesSkipped)
		assert.Equal(t, 3, summary.Components)
		assert.Equal(t, 1, summary.Registered)
		assert.Equal(t, 2, summary.Injectable)
		assert.Equal(t, 2, summary.Problems)
		assert.Equal(t, 1, summary.InvalidRegistrations)
		assert.Equal(t, 1, summary.InvalidInjections)

		assert.Contains(t, out.String(), "[INFO] Checking ./...")
		assert.Contains(t, out.String(), "Store registers as example.com/shop/orders.Repository")
		assert.Contains(t, out.String(), "Service.Repo injects example.com/shop/orders.Repository")
		assert.Contains(t, errOut.String(), "invalid registration: component 'billing.Fake' cannot register as 'billing.Gateway'")
		assert.Contains(t, errOut.String(), "invalid injection: field 'billing.Fake.Retries' cannot be injected: malformed inject tag")
	})

	t.Run("clean package", func(t *testing.T) {
		checker, _, errOut := newTestChecker(dir, "./orders")

		summary, err := checker.Run()
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Components)
		assert.Empty(t, errOut.String())
	})

	t.Run("missing directory", func(t *testing.T) {
		checker, _, _ := newTestChecker(dir, "./inventory/...")

		_, err := checker.Run()
		require.Error(t, err)
		assert.False(t, IsCheckFailure(err))
	})
}

func TestChecker_WarnsWithoutModule(t *testing.T) {
	dir := writeCheckerFixture(t, map[string]string{"lib/lib.go": "package lib\n"})

	checker, _, errOut := newTestChecker(dir, "./lib")
	_, _ = checker.Run()
	assert.Contains(t, errOut.String(), "! could not resolve module name, reporting full package paths")
}

func TestChecker_SkippedPackages(t *testing.T) {
	files := map[string]string{
		"go.mod":   checkerFixture["go.mod"],
		"di/di.go": checkerFixture["di/di.go"],
		"broken/broken.go": `package broken

func Broken() int { return "nope" }
`,
	}
	dir := writeCheckerFixture(t, files)

	checker, out, errOut := newTestChecker(dir, "./...")
	summary, err := checker.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PackagesSkipped)
	assert.Contains(t, out.String(), "[WARN] 1 package(s) could not be loaded and were skipped")
	assert.Contains(t, errOut.String(), "skipped: failed to load package 'broken'")

	checker, _, _ = newTestChecker(dir, "./...")
	checker.config.FailOnSkipped = true
	_, err = checker.Run()
	assert.ErrorIs(t, err, ErrPackagesSkipped)
}
