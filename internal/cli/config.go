package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/toyz/measuregen/internal/utils"
)

// DefaultConfigFile is read from the working directory when no --config is given
const DefaultConfigFile = "measuregen.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for measured methods.
	// Entries ending in /... are scanned recursively.
	Directories []string `yaml:"directories"`

	// ModuleName overrides the module path read from go.mod
	ModuleName string `yaml:"module"`

	// Exclude holds doublestar patterns of directories to skip, relative to
	// each scanned root
	Exclude []string `yaml:"exclude"`

	// Workers bounds how many types are synthesized at once. Zero means one
	// per CPU.
	Workers int `yaml:"workers"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"verbose"`

	// Quiet only shows errors and the final result
	Quiet bool `yaml:"quiet"`

	// DryRun renders wrappers without writing them
	DryRun bool `yaml:"-"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, utils.WrapReadError("config file", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, utils.WrapParseError(fmt.Sprintf("config file %s", path), err)
	}
	return cfg, nil
}

// Validate checks for contradictory settings
func (c Config) Validate() error {
	if c.Verbose && c.Quiet {
		return errors.New("verbose and quiet cannot both be set")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// WorkerLimit returns the effective number of parallel workers
func (c Config) WorkerLimit() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Targets returns the directories to scan, defaulting to the current one
func (c Config) Targets() []string {
	if len(c.Directories) == 0 {
		return []string{"."}
	}
	return c.Directories
}

// Diagnostics builds the diagnostic system matching the verbosity settings
func (c Config) Diagnostics() *utils.DiagnosticSystem {
	switch {
	case c.Quiet:
		return utils.NewQuietDiagnostics()
	case c.Verbose:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}
