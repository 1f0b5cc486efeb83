// Package project loads the jvmlower.toml project configuration.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidJobs indicates a negative [lower].jobs.
	ErrInvalidJobs = errors.New("invalid [lower].jobs")
	// ErrInvalidCompanion indicates an empty or malformed companion name.
	ErrInvalidCompanion = errors.New("invalid [companions].intrinsic entry")
)

// Config is the decoded jvmlower.toml. Zero values mean "use the default".
type Config struct {
	Lower      LowerConfig      `toml:"lower"`
	Companions CompanionsConfig `toml:"companions"`

	// Path is the file the config came from; empty for defaults.
	Path string `toml:"-"`
}

// LowerConfig is the [lower] section.
type LowerConfig struct {
	// Jobs bounds parallel unit lowering; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// Trace is a trace level name (off, phase, unit, debug).
	Trace string `toml:"trace"`
	// Cache is the dump cache directory, relative to the config file.
	Cache string `toml:"cache"`
	// Units lists unit files or directories, relative to the config file.
	Units []string `toml:"units"`
}

// CompanionsConfig is the [companions] section.
type CompanionsConfig struct {
	// Intrinsic adds companion objects the backend maps to intrinsics.
	Intrinsic []string `toml:"intrinsic"`
}

// Default returns the configuration used without a jvmlower.toml.
func Default() Config {
	return Config{Lower: LowerConfig{Trace: "off"}}
}

// JobLimit resolves Jobs to a positive worker count.
func (c *Config) JobLimit() int {
	if c.Lower.Jobs > 0 {
		return c.Lower.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Root is the directory relative paths in the config are resolved against.
func (c *Config) Root() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// Resolve makes p relative to the config root unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root(), filepath.FromSlash(p))
}

// LoadConfig parses and validates a jvmlower.toml.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if !meta.IsDefined("lower", "trace") || strings.TrimSpace(cfg.Lower.Trace) == "" {
		cfg.Lower.Trace = "off"
	}
	if cfg.Lower.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: %w: %d", path, ErrInvalidJobs, cfg.Lower.Jobs)
	}
	for i, name := range cfg.Companions.Intrinsic {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
			return Config{}, fmt.Errorf("%s: %w: %q", path, ErrInvalidCompanion, cfg.Companions.Intrinsic[i])
		}
		cfg.Companions.Intrinsic[i] = name
	}
	return cfg, nil
}

// Discover finds jvmlower.toml upward from startDir and loads it. Without a
// config file it returns Default and ok=false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}
