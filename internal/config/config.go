// Package config loads throws.yaml.
//
// The file is looked up from the working directory up to the filesystem root. All fields are optional:
//
//	runtime:          # import paths of runtime packages, the first one is imported by generated code
//	  - github.com/sirkon/throws
//	directive: throws # directive name: //throws, //throws:try
//	cache_dir: .throws
//	workers: 8
//	min_go: "1.24"
//	abandon:          # functions that never return
//	  - '"github.com/acme/app/fatal".Exit'
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/sirkon/throws/internal/rewrite"
)

// DefaultMinGo is the lowest go directive of a module the generated code compiles with. Generic type aliases
// of the runtime need it.
const DefaultMinGo = "1.24"

// Config represents throws.yaml.
type Config struct {
	// Runtime lists import paths recognized as the runtime package.
	Runtime []string `yaml:"runtime,omitempty"`

	// Directive is the directive name.
	Directive string `yaml:"directive,omitempty"`

	// CacheDir keeps shadow files and overlay.json. Relative paths are relative to the config file.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Workers limits concurrent file expansions. Zero means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`

	// MinGo is the minimal go directive of target modules.
	MinGo string `yaml:"min_go,omitempty"`

	// Abandon lists custom functions that end execution like panic does.
	Abandon []Reference `yaml:"abandon,omitempty"`
}

// Default returns the configuration used without throws.yaml.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// Load finds and loads the config for the directory. The default config is returned without one, the path is
// empty then.
func Load(dir string) (*Config, string, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// LoadConfig reads and parses a throws.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses throws.yaml content from bytes.
// The path argument is used for error messages and to resolve a relative cache directory.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if path != "" && !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(filepath.Dir(path), cfg.CacheDir)
	}
	return &cfg, nil
}

// FindConfig searches for throws.yaml starting from dir and walking up to parent directories.
// Returns an empty path and nil error if there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"throws.yaml", "throws.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	for i, p := range c.Runtime {
		if p == "" || strings.ContainsFunc(p, unicode.IsSpace) {
			return fmt.Errorf("%s: runtime[%d]: invalid import path %q", path, i, p)
		}
	}

	if c.Directive != "" && !isIdent(c.Directive) {
		return fmt.Errorf("%s: directive: %q is not an identifier", path, c.Directive)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%s: workers: must not be negative, got %d", path, c.Workers)
	}

	if c.MinGo != "" {
		if _, err := semver.NewVersion(c.MinGo); err != nil {
			return fmt.Errorf("%s: min_go: %w", path, err)
		}
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if len(c.Runtime) == 0 {
		c.Runtime = []string{rewrite.RuntimePath}
	}
	if c.Directive == "" {
		c.Directive = "throws"
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.MinGo == "" {
		c.MinGo = DefaultMinGo
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "throws")
}

// AbandonFuncs merges custom abandon functions with the predefined ones.
func (c *Config) AbandonFuncs() *rewrite.AbandonFuncs {
	custom := make([]rewrite.PackagedFunc, 0, len(c.Abandon))
	for _, ref := range c.Abandon {
		custom = append(custom, ref.Func())
	}

	return rewrite.NewAbandonFuncs(custom...)
}
