/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/friendsincode/zoneshift/internal/models"
	"github.com/friendsincode/zoneshift/internal/roster"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load roster or zone data into the database",
	Long:  "Import the day's roster CSV or a zone layout YAML into the database for watch mode and later exports",
}

var importRosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Replace the stored roster from a CSV",
	Long:  "Validate a roster CSV against the skills database and replace the stored roster with its records",
	RunE:  runImportRoster,
}

var importZonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Replace the stored zone layout from a YAML file",
	RunE:  runImportZones,
}

var (
	importRosterPath string
	importSkillsPath string
	importZonesPath  string
	importDryRun     bool
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importRosterCmd)
	importCmd.AddCommand(importZonesCmd)

	importRosterCmd.Flags().StringVar(&importRosterPath, "roster", "", "Path to the roster CSV (required)")
	importRosterCmd.Flags().StringVar(&importSkillsPath, "skills", "", "Path to the skills database JSON (default from config)")
	importRosterCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without importing")
	importRosterCmd.MarkFlagRequired("roster")

	importZonesCmd.Flags().StringVar(&importZonesPath, "zones", "", "Path to the zone layout YAML (required)")
	importZonesCmd.MarkFlagRequired("zones")
}

func runImportRoster(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	zones, err := loadZoneConfig("")
	if err != nil {
		return err
	}

	skillsPath := importSkillsPath
	if skillsPath == "" {
		skillsPath = cfg.SkillsDBPath
	}
	skills, err := roster.LoadSkillsDB(skillsPath, zones.Skills)
	if err != nil {
		return err
	}

	records, err := roster.LoadCSV(importRosterPath, skills)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if importDryRun {
		fmt.Printf("\nImport Preview:\n")
		fmt.Printf("  Employees: %d\n", len(records))
		fmt.Printf("\nRun without --dry-run to perform the import.\n")
		return nil
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	employees := make([]models.Employee, len(records))
	for i, rec := range records {
		employees[i] = models.Employee{
			ID:         uuid.NewString(),
			Alias:      rec.Alias,
			Skills:     rec.Skills,
			ShiftStart: rec.Start,
			ShiftEnd:   rec.End,
		}
	}

	// A roster import replaces the previous day's roster wholesale.
	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Employee{}).Error; err != nil {
			return err
		}
		if len(employees) == 0 {
			return nil
		}
		return tx.Create(&employees).Error
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info().Int("employees", len(employees)).Msg("roster import completed")
	fmt.Printf("\nImport Complete!\n")
	fmt.Printf("  Employees: %d imported\n", len(employees))
	return nil
}

func runImportZones(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	layout, err := loadZoneConfig(importZonesPath)
	if err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	zones := make([]models.Zone, len(layout.Zones))
	for i, def := range layout.Zones {
		zones[i] = models.Zone{
			ID:            uuid.NewString(),
			Name:          def.Name,
			RequiredSkill: def.Skill,
			Position:      i,
		}
	}

	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Zone{}).Error; err != nil {
			return err
		}
		if len(zones) == 0 {
			return nil
		}
		return tx.Create(&zones).Error
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info().Int("zones", len(zones)).Msg("zone layout import completed")
	fmt.Printf("\nImport Complete!\n")
	fmt.Printf("  Zones: %d imported\n", len(zones))
	return nil
}
