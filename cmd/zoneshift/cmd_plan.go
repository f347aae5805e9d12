/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/friendsincode/zoneshift/internal/planner"
	"github.com/friendsincode/zoneshift/internal/roster"
	"github.com/friendsincode/zoneshift/internal/schedule"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a zone schedule from a roster CSV",
	Long:  "Read a roster CSV and the skills database, run the assignment engine, and print or export the resulting zone schedule",
	RunE:  runPlan,
}

var (
	planRosterPath string
	planSkillsPath string
	planZonesPath  string
	planFormat     string
	planOutput     string
	planStore      bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planRosterPath, "roster", "", "Path to the roster CSV (required)")
	planCmd.Flags().StringVar(&planSkillsPath, "skills", "", "Path to the skills database JSON (default from config)")
	planCmd.Flags().StringVar(&planZonesPath, "zones", "", "Path to the zone layout YAML (default from config)")
	planCmd.Flags().StringVar(&planFormat, "format", "table", "Output format: table, json, csv, or ics")
	planCmd.Flags().StringVar(&planOutput, "output", "", "Write the export to this file instead of stdout")
	planCmd.Flags().BoolVar(&planStore, "store", false, "Persist the run to the database")
	planCmd.MarkFlagRequired("roster")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	zones, err := loadZoneConfig(planZonesPath)
	if err != nil {
		return err
	}

	skillsPath := planSkillsPath
	if skillsPath == "" {
		skillsPath = cfg.SkillsDBPath
	}
	skills, err := roster.LoadSkillsDB(skillsPath, zones.Skills)
	if err != nil {
		return err
	}

	records, err := roster.LoadCSV(planRosterPath, skills)
	if err != nil {
		return err
	}

	var database *gorm.DB
	if planStore {
		database, err = initDatabase()
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
	}

	svc := planner.New(database, zones, cfg.SlotMinutes, logger)
	result, err := svc.Plan(context.Background(), records)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	if err := writeSchedule(result.Schedule, planFormat, planOutput); err != nil {
		return err
	}

	fmt.Printf("\nPlan Complete!\n")
	fmt.Printf("  Zones:      %d\n", result.Run.ZoneCount)
	fmt.Printf("  Employees:  %d\n", result.Run.EmployeeCount)
	fmt.Printf("  Slots:      %d\n", result.Run.SlotCount)
	fmt.Printf("  Unstaffed:  %d\n", result.Run.UnstaffedSlots)
	if planStore {
		fmt.Printf("  Run ID:     %s\n", result.Run.ID)
	}
	return nil
}

// writeSchedule renders a schedule in the requested format to a file or
// stdout.
func writeSchedule(sched *schedule.Schedule, format, output string) error {
	if format == "table" {
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			return sched.RenderTable(f)
		}
		return sched.RenderTable(os.Stdout)
	}

	var result *schedule.ExportResult
	var err error
	switch format {
	case "json":
		result, err = sched.ExportJSON()
	case "csv":
		result, err = sched.ExportCSV()
	case "ics":
		result, err = sched.ExportICal()
	default:
		return fmt.Errorf("unknown format %q (want table, json, csv, or ics)", format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(result.Data)
		return err
	}
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}
