// Package config loads startup configuration from a .env file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/litescript/ls-galaxy/internal/galaxy"
)

// ErrUnknownPreset is returned for a preset name other than "default" or
// "minimal".
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	PresetDefault = "default"
	PresetMinimal = "minimal"
)

// Config is the resolved startup configuration.
type Config struct {
	Preset   string
	Params   galaxy.Parameters
	Seed     int64
	LogLevel string
	LogFile  string
}

// Key ties a flag name to its environment variable.
type Key struct {
	Flag string
	Env  string
}

// Keys lists every configurable setting. The preset comes first so that
// individual settings apply on top of it.
var Keys = []Key{
	{Flag: "preset", Env: "GALAXY_PRESET"},
	{Flag: "count", Env: "GALAXY_COUNT"},
	{Flag: "size", Env: "GALAXY_SIZE"},
	{Flag: "radius", Env: "GALAXY_RADIUS"},
	{Flag: "branches", Env: "GALAXY_BRANCHES"},
	{Flag: "spin", Env: "GALAXY_SPIN"},
	{Flag: "randomness", Env: "GALAXY_RANDOMNESS"},
	{Flag: "randomness-power", Env: "GALAXY_RANDOMNESS_POWER"},
	{Flag: "inside", Env: "GALAXY_INSIDE_COLOR"},
	{Flag: "outside", Env: "GALAXY_OUTSIDE_COLOR"},
	{Flag: "seed", Env: "GALAXY_SEED"},
	{Flag: "scale-jitter", Env: "GALAXY_SCALE_JITTER"},
	{Flag: "log-level", Env: "GALAXY_LOG_LEVEL"},
	{Flag: "log-file", Env: "GALAXY_LOG_FILE"},
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Preset:   PresetDefault,
		Params:   galaxy.DefaultParameters(),
		LogLevel: "info",
	}
}

// Preset returns the parameters for a named preset.
func Preset(name string) (galaxy.Parameters, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetDefault:
		return galaxy.DefaultParameters(), nil
	case PresetMinimal:
		return galaxy.MinimalParameters(), nil
	default:
		return galaxy.Parameters{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
}

// Load reads an optional .env file, then the GALAXY_* environment
// variables. Variables already present in the environment win over the
// .env file.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load(envFiles...)

	cfg := Default()
	values := make(map[string]string)
	labels := make(map[string]string)
	for _, k := range Keys {
		if v, ok := os.LookupEnv(k.Env); ok && v != "" {
			values[k.Flag] = v
			labels[k.Flag] = k.Env
		}
	}
	if err := cfg.apply(values, labels); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overrides settings by flag name, e.g. from flags the user set on
// the command line.
func (c *Config) Apply(values map[string]string) error {
	labels := make(map[string]string, len(values))
	for name := range values {
		labels[name] = "-" + name
	}
	if err := c.apply(values, labels); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) apply(values, labels map[string]string) error {
	for name := range values {
		if !known(name) {
			return fmt.Errorf("%s: unknown setting", labels[name])
		}
	}
	for _, k := range Keys {
		v, ok := values[k.Flag]
		if !ok {
			continue
		}
		if err := c.set(k.Flag, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", labels[k.Flag], err)
		}
	}
	return nil
}

func known(name string) bool {
	for _, k := range Keys {
		if k.Flag == name {
			return true
		}
	}
	return false
}

func (c *Config) set(name, v string) error {
	p := &c.Params
	var err error
	switch name {
	case "preset":
		var params galaxy.Parameters
		if params, err = Preset(v); err == nil {
			c.Preset = strings.ToLower(v)
			c.Params = params
		}
	case "count":
		p.Count, err = strconv.Atoi(v)
	case "size":
		p.Size, err = strconv.ParseFloat(v, 64)
	case "radius":
		p.Radius, err = strconv.ParseFloat(v, 64)
	case "branches":
		p.Branches, err = strconv.Atoi(v)
	case "spin":
		p.Spin, err = strconv.ParseFloat(v, 64)
	case "randomness":
		p.Randomness, err = strconv.ParseFloat(v, 64)
	case "randomness-power":
		p.RandomnessPower, err = strconv.ParseFloat(v, 64)
	case "inside":
		p.InsideColor, err = galaxy.ParseHex(v)
	case "outside":
		p.OutsideColor, err = galaxy.ParseHex(v)
	case "seed":
		c.Seed, err = strconv.ParseInt(v, 10, 64)
	case "scale-jitter":
		p.ScaleJitter, err = strconv.ParseBool(v)
	case "log-level":
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(v)
		default:
			err = fmt.Errorf("invalid log level %q", v)
		}
	case "log-file":
		c.LogFile = v
	}
	return err
}

// Validate checks the resolved galaxy parameters.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
