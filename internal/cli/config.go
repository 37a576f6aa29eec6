package cli

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sapo-creations/sapodi/internal/errors"
	"github.com/sapo-creations/sapodi/internal/logging"
	"github.com/sapo-creations/sapodi/internal/parser"
	"github.com/sapo-creations/sapodi/internal/utils"
)

// DefaultConfigFile is read from the working directory when no --config
// flag is given and the file exists
const DefaultConfigFile = "sapodi.yaml"

// Config holds the configuration of the checker
type Config struct {
	// Patterns are the package patterns to check, such as ./...
	Patterns []string `yaml:"patterns"`

	// Dir is the directory patterns are resolved against
	Dir string `yaml:"dir"`

	// ModuleName overrides the module name read from go.mod
	ModuleName string `yaml:"module"`

	// MarkerPackage is the import path that declares Register
	MarkerPackage string `yaml:"marker_package"`

	// TagName is the struct tag key of the injection marker
	TagName string `yaml:"tag"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose"`

	// Quiet only shows errors and the final result
	Quiet bool `yaml:"quiet"`

	// LogFormat is text or json
	LogFormat string `yaml:"log_format"`

	// FailOnSkipped makes packages that fail to load fail the check
	FailOnSkipped bool `yaml:"fail_on_skipped"`

	// Timestamps prefixes leveled output with the time of day
	Timestamps bool `yaml:"timestamps"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Dir:           ".",
		MarkerPackage: parser.DefaultMarkerPackage,
		TagName:       parser.DefaultTagName,
		LogFormat:     string(logging.FormatText),
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults
func LoadConfig(reader *utils.FileReader, path string) (Config, error) {
	content, err := reader.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapFileSystemError("read", path, err)
	}

	config, err := ParseConfig(strings.NewReader(content))
	if err != nil {
		return Config{}, errors.WrapConfigurationError(path, "parse", err)
	}
	return config, nil
}

// ParseConfig decodes YAML configuration on top of the defaults. Unknown
// keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return config, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration for conflicting or malformed values
func (c *Config) Validate() error {
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "verbose and quiet cannot be combined").
			Suggest("Pass only one of --verbose and --quiet")
	}
	if len(c.Patterns) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "at least one package pattern is required").
			Suggest("Pass ./... to check every package of the module")
	}
	if c.TagName == "" || strings.ContainsAny(c.TagName, " \t\":`") {
		return errors.Newf(errors.ConfigurationErrorCode, "invalid tag name %q", c.TagName).
			Suggest("Tag names are non-empty and contain no spaces, quotes or colons")
	}
	if c.MarkerPackage == "" {
		return errors.New(errors.ConfigurationErrorCode, "marker package cannot be empty")
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}
