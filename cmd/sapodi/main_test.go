package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLIArgumentParsing(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	t.Run("help flag", func(t *testing.T) {
		code, _, stderr := runCLI("--help")
		assert.Equal(t, 0, code)
		assert.Contains(t, stderr, "Usage:")
		assert.Contains(t, stderr, "Sapodi Marker Checker")
		assert.Contains(t, stderr, "-marker-package")
		assert.Contains(t, stderr, "package-patterns")
	})

	t.Run("no arguments", func(t *testing.T) {
		chdir(t, t.TempDir())
		code, _, stderr := runCLI()
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "at least one package pattern is required")
	})

	t.Run("unknown flag", func(t *testing.T) {
		code, _, stderr := runCLI("--generate", "./...")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "flag provided but not defined")
	})

	t.Run("conflicting flags", func(t *testing.T) {
		code, _, stderr := runCLI("--verbose", "--quiet", "./...")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "verbose and quiet cannot be combined")
	})

	t.Run("missing config file", func(t *testing.T) {
		code, _, stderr := runCLI("--config", filepath.Join(t.TempDir(), "nope.yaml"), "./...")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "failed to read file")
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		code, _, stderr := runCLI("/nonexistent/directory/...")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Check failed")
	})
}

func TestCLIRun(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	t.Setenv("NO_COLOR", "1")
	t.Setenv("GOWORK", "off")
	t.Setenv("GOFLAGS", "-mod=mod")
	t.Setenv("GOPROXY", "off")

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":   "module example.com/greeter\n\ngo 1.22\n",
		"di/di.go": "package di\n\ntype Register[T any] struct{}\n",
		"greet/greet.go": "package greet\n\nimport \"example.com/greeter/di\"\n\n" +
			"type Greeter interface{ Greet() string }\n\n" +
			"type English struct {\n\tdi.Register[Greeter]\n}\n\n" +
			"func (English) Greet() string { return \"hello\" }\n",
		"bad/bad.go": "package bad\n\nimport \"example.com/greeter/di\"\n\n" +
			"type Greeter interface{ Greet() string }\n\n" +
			"type Mute struct {\n\tdi.Register[Greeter]\n}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Run("valid markers", func(t *testing.T) {
		code, stdout, _ := runCLI("--dir", dir, "--marker-package", "example.com/greeter/di", "./greet")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "Check Complete!")
		assert.Contains(t, stdout, "Registered: 1")
		assert.Contains(t, stdout, "All markers are valid")
	})

	t.Run("timestamps", func(t *testing.T) {
		code, stdout, _ := runCLI("--dir", dir, "--marker-package", "example.com/greeter/di", "--timestamps", "./greet")
		assert.Equal(t, 0, code)
		assert.Regexp(t, `(?m)^\d{2}:\d{2}:\d{2} \[SUCCESS\] All markers are valid$`, stdout)
	})

	t.Run("invalid markers", func(t *testing.T) {
		code, stdout, stderr := runCLI("--dir", dir, "--marker-package", "example.com/greeter/di", "./...")
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "Problems: 1")
		assert.Contains(t, stdout, "Invalid registrations: 1")
		assert.Contains(t, stderr, "component 'bad.Mute' cannot register as 'bad.Greeter'")
	})

	t.Run("config file", func(t *testing.T) {
		configPath := filepath.Join(dir, "sapodi.yaml")
		config := "patterns: [./greet]\ndir: " + dir + "\nmarker_package: example.com/greeter/di\nquiet: true\n"
		require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

		code, stdout, _ := runCLI("--config", configPath)
		assert.Equal(t, 0, code)
		assert.Empty(t, stdout)
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })
}
