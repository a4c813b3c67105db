package binder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CascadeMode controls whether a validator keeps evaluating rules for a field
// after the first failure. It is threaded through every Validate call instead
// of living in process-global state, so two concurrent forms can validate
// under different modes.
type CascadeMode int

const (
	// CascadeContinue evaluates every rule and reports all failures.
	CascadeContinue CascadeMode = iota
	// CascadeStopOnFirstFailure stops a field's rule chain at the first failure.
	CascadeStopOnFirstFailure
)

//go:generate go tool stringer -type=CascadeMode -trimprefix=Cascade

// ParseCascadeMode parses the YAML/config spelling of a cascade mode.
func ParseCascadeMode(s string) (CascadeMode, error) {
	switch s {
	case "", "continue":
		return CascadeContinue, nil
	case "stop_on_first_failure", "stop":
		return CascadeStopOnFirstFailure, nil
	default:
		return CascadeContinue, fmt.Errorf("unknown cascade mode %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler using the config spelling.
func (m *CascadeMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseCascadeMode(s)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// Options configures one validation invocation.
type Options struct {
	Cascade CascadeMode `yaml:"cascade"`
}

// ParseOptions parses YAML data into Options.
func ParseOptions(data []byte) (Options, error) {
	var opts Options

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse options YAML: %w", err)
	}

	return opts, nil
}

// LoadOptions loads and parses a YAML options file from the given path.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	return ParseOptions(data)
}
