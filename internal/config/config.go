// Package config handles settings loading and validation for batchren.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"batchren/internal/transform"
)

const (
	// MaxReplacementLength bounds the replacement token, in characters.
	MaxReplacementLength = 10
	// MaxAffixLength bounds the prefix and the suffix, in characters.
	MaxAffixLength = 100
	// DefaultMaxFiles caps the number of files a single scan visits.
	DefaultMaxFiles = 10000
	// LogFilenamePrefix starts the name of every rename log.
	LogFilenamePrefix = "rename_log_"
	// ConfigFileName is the defaults file looked up in the user config directory.
	ConfigFileName = "config.yaml"
	// AppName names the user config subdirectory.
	AppName = "batchren"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound ConfigErrorType = "FILE_NOT_FOUND"
	InvalidYAML  ConfigErrorType = "INVALID_YAML"
	WriteFailed  ConfigErrorType = "WRITE_FAILED"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file %s: %s", e.Path, e.Message)
	case WriteFailed:
		return fmt.Sprintf("failed to write configuration file %s: %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// FileDefaults is the on-disk form of the defaults file.
// Pointer fields distinguish "unset" from a zero value, so that
// `replace: ""` can select deletion.
type FileDefaults struct {
	Replace   *string `yaml:"replace,omitempty"`
	Prefix    *string `yaml:"prefix,omitempty"`
	Suffix    *string `yaml:"suffix,omitempty"`
	Recursive *bool   `yaml:"recursive,omitempty"`
	MaxFiles  *int    `yaml:"maxFiles,omitempty"`
}

// Options holds the effective settings for one run.
type Options struct {
	Directory string
	Rules     transform.Rules
	Recursive bool
	Apply     bool
	Verbose   bool
	MaxFiles  int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Rules:    transform.DefaultRules(),
		MaxFiles: DefaultMaxFiles,
	}
}

// Merge overlays the values set in d onto o.
func (o *Options) Merge(d *FileDefaults) {
	if d == nil {
		return
	}
	if d.Replace != nil {
		o.Rules.Replacement = *d.Replace
	}
	if d.Prefix != nil {
		o.Rules.Prefix = *d.Prefix
	}
	if d.Suffix != nil {
		o.Rules.Suffix = *d.Suffix
	}
	if d.Recursive != nil {
		o.Recursive = *d.Recursive
	}
	if d.MaxFiles != nil {
		o.MaxFiles = *d.MaxFiles
	}
}

// DefaultsFromOptions captures the persistable settings of o.
func DefaultsFromOptions(o Options) *FileDefaults {
	replace := o.Rules.Replacement
	prefix := o.Rules.Prefix
	suffix := o.Rules.Suffix
	recursive := o.Recursive
	maxFiles := o.MaxFiles
	return &FileDefaults{
		Replace:   &replace,
		Prefix:    &prefix,
		Suffix:    &suffix,
		Recursive: &recursive,
		MaxFiles:  &maxFiles,
	}
}

// DefaultPath returns the per-user defaults file location.
// $XDG_CONFIG_HOME wins over the home directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName, ConfigFileName), nil
}

// Load reads and parses a defaults file from the given path.
func Load(filePath string) (*FileDefaults, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var defaults FileDefaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	return &defaults, nil
}

// LoadOrEmpty loads the defaults file if it exists, or returns empty
// defaults if it doesn't.
func LoadOrEmpty(filePath string) (*FileDefaults, error) {
	defaults, err := Load(filePath)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == FileNotFound && cfgErr.Message == "" {
			return &FileDefaults{}, nil
		}
		return nil, err
	}
	return defaults, nil
}

// Save serializes and writes defaults to the given path.
func Save(defaults *FileDefaults, filePath string) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return &ConfigError{
			Type:    InvalidYAML,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &ConfigError{
			Type:    WriteFailed,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    WriteFailed,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	return nil
}

// ResolveDirectory expands a leading "~" and makes path absolute.
func ResolveDirectory(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
