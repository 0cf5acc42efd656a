// Package config holds the per-run configuration of the dependency
// computation. The settings exist to compare behaviours against reference
// runs: both knobs the declared interfaces leave open (what to do when a
// pointer does not resolve, and whether dependency queries close
// transitively) are pinned here rather than hard-coded.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// UnresolvedPolicy selects the conservative behaviour applied when a load
// or store goes through a pointer that resolves to no known allocation.
type UnresolvedPolicy string

const (
	// PolicyAllLive makes the affected value depend on every value
	// currently stored in any live allocation. Sound but coarse.
	PolicyAllLive UnresolvedPolicy = "all-live"
	// PolicyNone records no dependency and flags the affected value as
	// unsound. The value itself is still created, never dropped.
	PolicyNone UnresolvedPolicy = "none"
)

type Config struct {
	// UnresolvedPolicy applies to loads and stores through unresolved
	// pointers. Defaults to "all-live".
	UnresolvedPolicy UnresolvedPolicy `yaml:"unresolved-policy"`

	// TransitiveQueries makes the top-level dependency query close the
	// direct flow edges transitively. Direct record queries are
	// unaffected.
	TransitiveQueries bool `yaml:"transitive-queries"`

	// CoreTerms lists the renderings of the expressions a core-restricted
	// interpolant projection keeps. An externally-run solver fills this in
	// from its unsatisfiability core.
	CoreTerms []string `yaml:"core-terms"`

	// Verbose enables progress output during replay.
	Verbose bool `yaml:"verbose"`
}

// CoreSet returns the core terms as a membership set, or nil when none
// are configured.
func (cfg *Config) CoreSet() map[string]bool {
	if len(cfg.CoreTerms) == 0 {
		return nil
	}
	set := make(map[string]bool, len(cfg.CoreTerms))
	for _, t := range cfg.CoreTerms {
		set[t] = true
	}
	return set
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		UnresolvedPolicy: PolicyAllLive,
	}
}

// Parse reads a configuration from yaml bytes, filling in defaults for
// absent fields.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("malformed configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func (cfg *Config) validate() error {
	switch cfg.UnresolvedPolicy {
	case PolicyAllLive, PolicyNone:
		return nil
	case "":
		cfg.UnresolvedPolicy = PolicyAllLive
		return nil
	}
	return fmt.Errorf("unknown unresolved-policy: %q", cfg.UnresolvedPolicy)
}
