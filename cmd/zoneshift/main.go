/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/friendsincode/zoneshift/internal/config"
	"github.com/friendsincode/zoneshift/internal/db"
	"github.com/friendsincode/zoneshift/internal/logging"
	"github.com/friendsincode/zoneshift/internal/version"
	"github.com/friendsincode/zoneshift/internal/zone"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "zoneshift",
	Short:   "Zoneshift - Retail zone coverage scheduler",
	Long:    "Zoneshift assigns employees to store zones across a workday based on skill match and shift availability, preferring continuous coverage over rotation.",
	Version: version.Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	godotenv.Load(".env")

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

// initDatabase opens the configured database and applies migrations.
func initDatabase() (*gorm.DB, error) {
	database, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return database, nil
}

// loadZoneConfig resolves the zone layout: an explicit --zones flag, the
// configured zones file, or the built-in retail default.
func loadZoneConfig(flagPath string) (zone.Config, error) {
	path := flagPath
	if path == "" {
		path = cfg.ZonesFile
	}
	if path == "" {
		return zone.Default(), nil
	}
	return zone.Load(path)
}
