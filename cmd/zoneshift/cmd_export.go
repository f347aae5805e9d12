/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/zoneshift/internal/planner"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored schedule run",
	Long:  "Render a stored run (the latest by default) as a table, JSON, CSV, or iCal",
	RunE:  runExport,
}

var (
	exportRunID  string
	exportFormat string
	exportOutput string
	exportZones  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportRunID, "run", "", "Run ID to export (default: latest run)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "table", "Output format: table, json, csv, or ics")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Write the export to this file instead of stdout")
	exportCmd.Flags().StringVar(&exportZones, "zones", "", "Path to the zone layout YAML (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	zones, err := loadZoneConfig(exportZones)
	if err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	svc := planner.New(database, zones, cfg.SlotMinutes, logger)
	ctx := context.Background()

	runID := exportRunID
	if runID == "" {
		run, err := svc.LatestRun(ctx)
		if err != nil {
			return fmt.Errorf("no stored runs: %w", err)
		}
		runID = run.ID
	}

	sched, err := svc.ScheduleForRun(ctx, runID)
	if err != nil {
		return err
	}

	return writeSchedule(sched, exportFormat, exportOutput)
}
