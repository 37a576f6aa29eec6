package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sapo-creations/sapodi/internal/cli"
	"github.com/sapo-creations/sapodi/internal/logging"
	"github.com/sapo-creations/sapodi/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("sapodi", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configFlag    = flags.String("config", "", "Path to a YAML configuration file (defaults to ./"+cli.DefaultConfigFile+" when present)")
		dirFlag       = flags.String("dir", "", "Directory package patterns are resolved against")
		moduleFlag    = flags.String("module", "", "Module name used to shorten reported names (defaults to go.mod module)")
		markerFlag    = flags.String("marker-package", "", "Import path declaring the Register marker")
		tagFlag       = flags.String("tag", "", "Struct tag key of the injection marker")
		logFormatFlag = flags.String("log-format", "", "Log format: text or json")
		verboseFlag   = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag     = flags.Bool("quiet", false, "Only show errors and final results")
		failFlag      = flags.Bool("fail-on-skipped", false, "Fail when a package cannot be loaded")
		timeFlag      = flags.Bool("timestamps", false, "Prefix leveled output with the time of day")
		helpFlag      = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sapodi [options] <package-patterns...>\n\n")
		fmt.Fprintf(stderr, "Sapodi Marker Checker\n")
		fmt.Fprintf(stderr, "Loads Go packages and reports invalid Register markers and inject tags before the program runs.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  package-patterns   One or more package patterns to check\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  sapodi ./...                          # Check every package of the module\n")
		fmt.Fprintf(stderr, "  sapodi --tag wire ./internal/...      # Use a custom tag key\n")
		fmt.Fprintf(stderr, "  sapodi --config ci/sapodi.yaml        # Read patterns and options from a file\n")
		fmt.Fprintf(stderr, "  sapodi --log-format json --quiet ./... # Machine readable logs\n")
		fmt.Fprintf(stderr, "\nExit status is 0 when no problem is found and 1 otherwise.\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	reader := utils.NewFileReader()
	config := cli.DefaultConfig()

	configPath := *configFlag
	if configPath == "" && reader.Exists(cli.DefaultConfigFile) {
		configPath = cli.DefaultConfigFile
	}
	if configPath != "" {
		loaded, err := cli.LoadConfig(reader, configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		config = loaded
	}

	// Flags given explicitly override the file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			config.Dir = *dirFlag
		case "module":
			config.ModuleName = *moduleFlag
		case "marker-package":
			config.MarkerPackage = *markerFlag
		case "tag":
			config.TagName = *tagFlag
		case "log-format":
			config.LogFormat = *logFormatFlag
		case "verbose":
			config.Verbose = *verboseFlag
		case "quiet":
			config.Quiet = *quietFlag
		case "fail-on-skipped":
			config.FailOnSkipped = *failFlag
		case "timestamps":
			config.Timestamps = *timeFlag
		}
	})
	if flags.NArg() > 0 {
		config.Patterns = flags.Args()
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		flags.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	logLevel := slog.LevelWarn
	switch {
	case config.Quiet:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticError, stdout, stderr)
		logLevel = slog.LevelError
	case config.Verbose:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, stdout, stderr)
		logLevel = slog.LevelDebug
	default:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticInfo, stdout, stderr)
	}

	diagnostics.SetShowTime(config.Timestamps)

	format, _ := logging.ParseFormat(config.LogFormat)
	logger := logging.New(stderr, logging.Options{Format: format, Level: logLevel, NoColor: os.Getenv("NO_COLOR") != ""})

	diagnostics.Section("Sapodi Marker Checker")
	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Patterns: %s", strings.Join(config.Patterns, ", "))
		diagnostics.List("Marker package: %s", config.MarkerPackage)
		diagnostics.List("Tag: %s", config.TagName)
		if configPath != "" {
			diagnostics.List("Config file: %s", configPath)
		}
	}

	checker := cli.NewChecker(config, diagnostics, logger)
	summary, err := checker.Run()
	if err != nil && !cli.IsCheckFailure(err) {
		diagnostics.Error("Check failed: %v", err)
		return 1
	}

	stats := map[string]interface{}{
		"Packages checked":      summary.PackagesChecked,
		"Packages skipped":      summary.PackagesSkipped,
		"Components found":      summary.Components,
		"Registered":            summary.Registered,
		"With injected deps":    summary.Injectable,
		"Problems":              summary.Problems,
		"Invalid registrations": summary.InvalidRegistrations,
		"Invalid injections":    summary.InvalidInjections,
	}
	diagnostics.Summary("Check Complete!", stats)

	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}

	diagnostics.Success("All markers are valid")
	return 0
}
