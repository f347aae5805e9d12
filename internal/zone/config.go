/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package zone holds the zone definitions a store runs with: each zone
// names one required skill, and the skill vocabulary bounds what both
// zones and the skills database may use.
package zone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition names a zone and the single skill it requires.
type Definition struct {
	Name  string `yaml:"name"`
	Skill string `yaml:"skill"`
}

// Config is the zone layout for a store, usually read from zones.yaml.
type Config struct {
	// Skills is the vocabulary; every zone skill and every skills-database
	// entry must come from this set.
	Skills []string     `yaml:"skills"`
	Zones  []Definition `yaml:"zones"`
}

// Default returns the stock retail layout used when no zones file is
// configured.
func Default() Config {
	return Config{
		Skills: []string{"ENT", "CSH", "CSS", "ACO"},
		Zones: []Definition{
			{Name: "Entrance", Skill: "ENT"},
			{Name: "Cashier", Skill: "CSH"},
			{Name: "Customer Service", Skill: "CSS"},
			{Name: "ACO", Skill: "ACO"},
		},
	}
}

// Load reads a zone config from a YAML file and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read zones file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse zones file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the vocabulary and every zone definition.
func (c Config) Validate() error {
	if len(c.Skills) == 0 {
		return fmt.Errorf("zone config has no skill vocabulary")
	}
	known := make(map[string]struct{}, len(c.Skills))
	for _, s := range c.Skills {
		if s == "" {
			return fmt.Errorf("zone config has an empty skill in the vocabulary")
		}
		if _, dup := known[s]; dup {
			return fmt.Errorf("zone config repeats skill %s in the vocabulary", s)
		}
		known[s] = struct{}{}
	}

	names := make(map[string]struct{}, len(c.Zones))
	for _, z := range c.Zones {
		if z.Name == "" {
			return fmt.Errorf("zone config has a zone with no name")
		}
		if _, dup := names[z.Name]; dup {
			return fmt.Errorf("zone config repeats zone %s", z.Name)
		}
		names[z.Name] = struct{}{}
		if z.Skill == "" {
			return fmt.Errorf("zone %s has no required skill", z.Name)
		}
		if _, ok := known[z.Skill]; !ok {
			return fmt.Errorf("zone %s requires unknown skill %s", z.Name, z.Skill)
		}
	}

	return nil
}
