// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package clksim

import (
	"fmt"
	"os"
	"strings"

	"github.com/clktree-foundation/clktree/lib/clk"
	"gopkg.in/yaml.v3"
)

// Config describes a simulated clock tree. Loaded from a single
// explicit YAML file; there is no discovery or layering.
type Config struct {
	// Clocks is the clock table in registration order.
	Clocks []ClockConfig `yaml:"clocks"`

	// Measure describes the optional measurement mux.
	Measure *MeasureConfig `yaml:"measure,omitempty"`
}

// ClockConfig describes one clock.
type ClockConfig struct {
	// Name is the clock's identifier, unique within the table.
	Name string `yaml:"name"`

	// Type selects the driver variant: fixed, tunable, stepped, or
	// remote.
	Type string `yaml:"type"`

	// Rate is the initial rate in Hz.
	Rate uint64 `yaml:"rate"`

	// Flags lists rate-constraint flags: "min" and/or "max".
	// Tunable clocks only.
	Flags []string `yaml:"flags,omitempty"`

	// MinRate and MaxRate are the platform bounds for tunable clocks;
	// zero disables the respective bound.
	MinRate uint64 `yaml:"min_rate,omitempty"`
	MaxRate uint64 `yaml:"max_rate,omitempty"`

	// Rates is the discrete rate table for stepped clocks, in
	// enumeration order.
	Rates []uint64 `yaml:"rates,omitempty"`

	// Enabled is the initial enable state. For fixed clocks this is
	// whether the source is running; for the others it seeds one
	// consumer reference.
	Enabled bool `yaml:"enabled,omitempty"`
}

// MeasureConfig describes the measurement mux.
type MeasureConfig struct {
	// Name is the mux clock's identifier.
	Name string `yaml:"name"`

	// Divider is the hardware divider applied to the measured parent
	// rate. Zero means 1.
	Divider uint64 `yaml:"divider,omitempty"`

	// Routes restricts which clocks the mux can measure. Empty means
	// all of them.
	Routes []string `yaml:"routes,omitempty"`
}

// Load reads and validates a clock-table config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading clock table %s: %w", path, err)
	}

	var config Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing clock table %s: %w", path, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("clock table %s: %w", path, err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if len(c.Clocks) == 0 {
		return fmt.Errorf("no clocks defined")
	}

	seen := make(map[string]bool, len(c.Clocks))
	for i, clock := range c.Clocks {
		if clock.Name == "" {
			return fmt.Errorf("clock %d: missing name", i)
		}
		if seen[clock.Name] {
			return fmt.Errorf("clock %s: duplicate name", clock.Name)
		}
		seen[clock.Name] = true

		switch clock.Type {
		case "fixed", "tunable", "remote":
			if len(clock.Rates) > 0 {
				return fmt.Errorf("clock %s: discrete rates on a %s clock", clock.Name, clock.Type)
			}
		case "stepped":
			if len(clock.Rates) == 0 {
				return fmt.Errorf("clock %s: stepped clock without rates", clock.Name)
			}
		default:
			return fmt.Errorf("clock %s: unknown type %q", clock.Name, clock.Type)
		}

		for _, flag := range clock.Flags {
			if flag != "min" && flag != "max" {
				return fmt.Errorf("clock %s: unknown flag %q", clock.Name, flag)
			}
			if clock.Type != "tunable" {
				return fmt.Errorf("clock %s: rate-constraint flags on a %s clock", clock.Name, clock.Type)
			}
		}
	}

	if c.Measure != nil {
		if c.Measure.Name == "" {
			return fmt.Errorf("measure: missing name")
		}
		if seen[c.Measure.Name] {
			return fmt.Errorf("measure: name %s collides with a table clock", c.Measure.Name)
		}
		for _, route := range c.Measure.Routes {
			if !seen[route] {
				return fmt.Errorf("measure: route to unknown clock %s", route)
			}
		}
	}
	return nil
}

// Build constructs the clock table and the optional measurement mux.
// The table is in config order, which becomes registration order.
func (c *Config) Build() (table []clk.Clock, measure clk.Clock, err error) {
	table = make([]clk.Clock, 0, len(c.Clocks))
	for _, config := range c.Clocks {
		clock, err := buildClock(config)
		if err != nil {
			return nil, nil, err
		}
		table = append(table, clock)
	}

	if c.Measure != nil {
		measure = NewMux(c.Measure.Name, c.Measure.Divider, c.Measure.Routes)
	}
	return table, measure, nil
}

func buildClock(config ClockConfig) (clk.Clock, error) {
	switch config.Type {
	case "fixed":
		return NewFixed(config.Name, config.Rate, config.Enabled), nil

	case "tunable":
		var flags clk.Flag
		for _, flag := range config.Flags {
			switch flag {
			case "min":
				flags |= clk.FlagMinRateConstrained
			case "max":
				flags |= clk.FlagMaxRateConstrained
			}
		}
		clock := NewTunable(config.Name, flags, config.Rate, config.MinRate, config.MaxRate)
		if config.Enabled {
			if err := clock.Enable(); err != nil {
				return nil, fmt.Errorf("clock %s: initial enable: %w", config.Name, err)
			}
		}
		return clock, nil

	case "stepped":
		clock, err := NewStepped(config.Name, config.Rates, config.Rate)
		if err != nil {
			return nil, err
		}
		if config.Enabled {
			if err := clock.Enable(); err != nil {
				return nil, fmt.Errorf("clock %s: initial enable: %w", config.Name, err)
			}
		}
		return clock, nil

	case "remote":
		clock := NewRemote(config.Name, config.Rate)
		if config.Enabled {
			if err := clock.Enable(); err != nil {
				return nil, fmt.Errorf("clock %s: initial enable: %w", config.Name, err)
			}
		}
		return clock, nil
	}
	return nil, fmt.Errorf("clock %s: unknown type %q", config.Name, config.Type)
}
