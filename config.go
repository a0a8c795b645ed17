package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"drone-flightpath/internal/geodata"
	"drone-flightpath/internal/geometry"
	"drone-flightpath/internal/planner"
)

// Config holds the application configuration
type Config struct {
	Port        string       `toml:"port" yaml:"port"`
	NoFlyZones  string       `toml:"no_fly_zones" yaml:"no_fly_zones"`
	CentralArea string       `toml:"central_area" yaml:"central_area"`
	Search      SearchConfig `toml:"search" yaml:"search"`
}

// SearchConfig tunes the path search. Zero values select the planner defaults.
type SearchConfig struct {
	MaxExpansions    int     `toml:"max_expansions" yaml:"max_expansions"`
	RevisitTolerance float64 `toml:"revisit_tolerance" yaml:"revisit_tolerance"`
}

// defaultCentralArea is the central campus area of the Edinburgh deployment.
var defaultCentralArea = geometry.NewRegion("central",
	geometry.Position{Lng: -3.192473, Lat: 55.946233},
	geometry.Position{Lng: -3.192473, Lat: 55.942617},
	geometry.Position{Lng: -3.184319, Lat: 55.942617},
	geometry.Position{Lng: -3.184319, Lat: 55.946233},
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Port:       ":8080",
		NoFlyZones: "nfz-polygons",
	}
}

// LoadConfig loads the configuration from a TOML or YAML file, chosen by
// extension. A missing file yields the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	raw, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("ℹ️  No config file at %s, using defaults\n", filename)
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &config); err != nil {
			return config, fmt.Errorf("error decoding config file: %w", err)
		}
	default:
		if _, err := toml.Decode(string(raw), &config); err != nil {
			return config, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	// Validate fields
	if config.Port == "" {
		config.Port = ":8080"
	}
	if config.Search.MaxExpansions < 0 {
		return config, fmt.Errorf("search.max_expansions must not be negative")
	}
	if config.Search.RevisitTolerance < 0 {
		return config, fmt.Errorf("search.revisit_tolerance must not be negative")
	}

	return config, nil
}

// PlannerOptions converts the search section into planner options.
func (c Config) PlannerOptions() []planner.Option {
	var opts []planner.Option
	if c.Search.MaxExpansions > 0 {
		opts = append(opts, planner.WithMaxExpansions(c.Search.MaxExpansions))
	}
	if c.Search.RevisitTolerance > 0 {
		opts = append(opts, planner.WithRevisitTolerance(c.Search.RevisitTolerance))
	}
	return opts
}

// LoadCentralArea reads the configured central area, or returns the built-in
// one when none is configured.
func (c Config) LoadCentralArea() (geometry.Region, error) {
	if c.CentralArea == "" {
		return defaultCentralArea, nil
	}
	return geodata.LoadRegion(c.CentralArea)
}

// LoadNoFlyZones reads the configured no-fly zones from a file or a directory
// of files. A missing path means no zones.
func (c Config) LoadNoFlyZones() ([]geometry.Region, error) {
	if c.NoFlyZones == "" {
		return nil, nil
	}
	info, err := os.Stat(c.NoFlyZones)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  No-fly zone path %s not found, flying without zones\n", c.NoFlyZones)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return geodata.LoadRegionsDir(c.NoFlyZones)
	}
	return geodata.LoadRegions(c.NoFlyZones)
}
