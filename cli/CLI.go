package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alexcrichton/futures-await/internal/codegen"
	"gopkg.in/yaml.v3"
)

// Default Config Values
const (
	defaultPackagePath  = ""
	defaultDiffFileName = "futures-await-expansion.diff"
)

// Config holds the settings of an expansion run. Values come from an optional
// YAML file; command line flags override them.
type Config struct {
	Debug    bool   `yaml:"debug"`
	Path     string `yaml:"path"`
	DiffFile string `yaml:"diff"`
	Print    bool   `yaml:"print"`
	Annotate bool   `yaml:"annotate"`

	Runtime RuntimeConfig `yaml:"runtime"`
}

// RuntimeConfig overrides the crates that generated code refers to.
type RuntimeConfig struct {
	Crate     string `yaml:"crate"`
	TypeCrate string `yaml:"type_crate"`
}

var crateName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func setConfigValue(input *string, defaultValue string) string {
	if input != nil && *input != "" {
		return strings.TrimSpace(*input)
	}
	return defaultValue
}

// NewConfig returns a config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Path: defaultPackagePath,
		Runtime: RuntimeConfig{
			Crate:     codegen.DefaultCrate,
			TypeCrate: codegen.DefaultTypeCrate,
		},
	}
}

// LoadConfig reads a YAML config file. Keys that are not known are an error.
// Settings missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = setConfigValue(&cfg.Path, defaultPackagePath)
	cfg.DiffFile = setConfigValue(&cfg.DiffFile, "")
	cfg.Runtime.Crate = setConfigValue(&cfg.Runtime.Crate, codegen.DefaultCrate)
	cfg.Runtime.TypeCrate = setConfigValue(&cfg.Runtime.TypeCrate, codegen.DefaultTypeCrate)

	// relative paths in the file are relative to the file
	dir := filepath.Dir(path)
	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(dir, cfg.Path)
	}
	if cfg.DiffFile != "" && !filepath.IsAbs(cfg.DiffFile) {
		cfg.DiffFile = filepath.Join(dir, cfg.DiffFile)
	}
	return cfg, nil
}

// Validate checks that the input path exists and the runtime crate names are
// identifiers. An empty diff file is set to a default next to the input.
func (cfg *Config) Validate() error {
	if cfg.Path == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("path %q is invalid: %w", cfg.Path, err)
	}
	for _, name := range []string{cfg.Runtime.Crate, cfg.Runtime.TypeCrate} {
		if !crateName.MatchString(name) {
			return fmt.Errorf("runtime crate %q is not a valid crate name", name)
		}
	}

	if cfg.DiffFile == "" {
		dir := cfg.Path
		if !info.IsDir() {
			dir = filepath.Dir(cfg.Path)
		}
		cfg.DiffFile = filepath.Join(dir, defaultDiffFileName)
	}
	return validateOutputFile(cfg.DiffFile)
}

// RuntimePaths returns the runtime paths to emit.
func (cfg *Config) RuntimePaths() codegen.Runtime {
	return codegen.Runtime{Crate: cfg.Runtime.Crate, TypeCrate: cfg.Runtime.TypeCrate}
}

// validateOutputFile checks that the custom output path is valid
func validateOutputFile(path string) error {
	if filepath.Ext(path) != ".diff" {
		return errors.New("output file must have a .diff extension")
	}

	_, err := os.Stat(filepath.Dir(path))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output file directory does not exist: %v", err)
	}

	return nil
}
