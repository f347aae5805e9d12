/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	DBBackend   DatabaseBackend
	DBDSN       string

	// SlotMinutes is the timeline granularity for assignment runs.
	SlotMinutes int

	// ZonesFile points at a YAML zone layout; empty means the built-in
	// retail default.
	ZonesFile string

	// SkillsDBPath points at the skills database JSON.
	SkillsDBPath string

	// PlanInterval is the re-planning cadence in watch mode.
	PlanInterval time.Duration

	MetricsBind string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:  getEnv("ZONESHIFT_ENV", "development"),
		DBBackend:    DatabaseBackend(getEnv("ZONESHIFT_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:        getEnv("ZONESHIFT_DB_DSN", "zoneshift.db"),
		SlotMinutes:  getEnvInt("ZONESHIFT_SLOT_MINUTES", 30),
		ZonesFile:    getEnv("ZONESHIFT_ZONES_FILE", ""),
		SkillsDBPath: getEnv("ZONESHIFT_SKILLS_DB", "skills_database.json"),
		PlanInterval: time.Duration(getEnvInt("ZONESHIFT_PLAN_INTERVAL_MINUTES", 15)) * time.Minute,
		MetricsBind:  getEnv("ZONESHIFT_METRICS_BIND", "127.0.0.1:9000"),

		TracingEnabled:    getEnvBool("ZONESHIFT_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("ZONESHIFT_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("ZONESHIFT_TRACING_SAMPLE_RATE", 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("ZONESHIFT_DB_DSN must be provided")
	}

	if cfg.SlotMinutes <= 0 || cfg.SlotMinutes > 60 {
		return nil, fmt.Errorf("ZONESHIFT_SLOT_MINUTES must be between 1 and 60, got %d", cfg.SlotMinutes)
	}

	if cfg.PlanInterval <= 0 {
		return nil, fmt.Errorf("ZONESHIFT_PLAN_INTERVAL_MINUTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
