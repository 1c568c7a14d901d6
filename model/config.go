package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/timewinder-dev/regloop/cas"
	"github.com/timewinder-dev/regloop/interp"
	"github.com/timewinder-dev/regloop/vm"
	"gopkg.in/yaml.v3"
)

// ProgramExt is the extension of program source files.
const ProgramExt = ".rl"

type Config struct {
	Program     ProgramConfig     `toml:"program" yaml:"program"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	Output      OutputConfig      `toml:"output" yaml:"output"`
}

type ProgramConfig struct {
	File string `toml:"file,omitempty" yaml:"file,omitempty"`
}

type InterpreterConfig struct {
	IsolateCalls bool `toml:"isolate_calls" yaml:"isolate_calls"`
	MaxCallDepth int  `toml:"max_call_depth" yaml:"max_call_depth"`
}

type OutputConfig struct {
	EchoProgram bool `toml:"echo_program" yaml:"echo_program"`
	Statistics  bool `toml:"statistics" yaml:"statistics"`
	Color       bool `toml:"color" yaml:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			EchoProgram: true,
			Color:       true,
		},
	}
}

type configFormat int

const (
	formatTOML configFormat = iota
	formatYAML
)

func formatFor(path string) (configFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, true
	case ".yaml", ".yml":
		return formatYAML, true
	}
	return 0, false
}

// parseConfig decodes over the defaults, so keys missing from the file keep
// their default values.
func parseConfig(f io.Reader, format configFormat) (*Config, error) {
	out := DefaultConfig()
	switch format {
	case formatYAML:
		err := yaml.NewDecoder(f).Decode(out)
		if err == io.EOF {
			err = nil
		}
		return out, err
	default:
		_, err := toml.NewDecoder(f).Decode(out)
		return out, err
	}
}

// LoadConfigFromFile reads a TOML or YAML run configuration. A missing
// program file defaults to the config's basename with the program extension;
// relative program paths are resolved against the config's directory.
func LoadConfigFromFile(path string) (*Config, error) {
	format, ok := formatFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	c, err := parseConfig(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if c.Program.File == "" {
		c.Program.File = strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name())) + ProgramExt
	}
	if !filepath.IsAbs(c.Program.File) {
		c.Program.File = filepath.Join(filepath.Dir(path), c.Program.File)
	}
	c.Program.File = filepath.Clean(c.Program.File)
	return c, nil
}

// ConfigForProgram returns the default configuration for running path.
func ConfigForProgram(path string) *Config {
	c := DefaultConfig()
	c.Program.File = path
	return c
}

// LoadConfig accepts either a config file or a program file.
func LoadConfig(path string) (*Config, error) {
	if _, ok := formatFor(path); ok {
		return LoadConfigFromFile(path)
	}
	return ConfigForProgram(path), nil
}

func (c *Config) Options() interp.Options {
	return interp.Options{
		IsolateCalls: c.Interpreter.IsolateCalls,
		MaxCallDepth: c.Interpreter.MaxCallDepth,
	}
}

func (c *Config) BuildExecutor(store cas.CAS) (*Executor, error) {
	if c.Interpreter.MaxCallDepth < 0 {
		return nil, fmt.Errorf("max_call_depth must not be negative, got %d", c.Interpreter.MaxCallDepth)
	}
	p, err := vm.CompilePath(c.Program.File)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = cas.NewLRUCache(cas.NewMemoryCAS(), 0)
	}
	return &Executor{
		Program: p,
		Config:  c,
		CAS:     store,
	}, nil
}
