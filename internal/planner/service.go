/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package planner orchestrates assignment runs: it gathers the roster
// and zone layout, drives the engine, and persists the resulting grid.
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/zoneshift/internal/assign"
	"github.com/friendsincode/zoneshift/internal/models"
	"github.com/friendsincode/zoneshift/internal/roster"
	"github.com/friendsincode/zoneshift/internal/schedule"
	"github.com/friendsincode/zoneshift/internal/telemetry"
	"github.com/friendsincode/zoneshift/internal/timeline"
	"github.com/friendsincode/zoneshift/internal/zone"
)

// Service runs the assignment engine over roster input and stores each
// completed run. Every Plan call constructs fresh timeline, index, and
// zone state, so concurrent callers never share mutable scheduling state.
type Service struct {
	db          *gorm.DB
	engine      *assign.Engine
	zones       zone.Config
	slotMinutes int
	logger      zerolog.Logger
}

// New constructs the planner service. db may be nil for one-shot runs
// that should not be persisted.
func New(db *gorm.DB, zones zone.Config, slotMinutes int, logger zerolog.Logger) *Service {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	return &Service{
		db:          db,
		engine:      assign.New(logger),
		zones:       zones,
		slotMinutes: slotMinutes,
		logger:      logger.With().Str("component", "planner").Logger(),
	}
}

// RunResult pairs the stored run record with its assembled schedule.
type RunResult struct {
	Run      models.ScheduleRun
	Schedule *schedule.Schedule
}

// Plan executes one assignment run over the given records and persists
// it. The run record and every grid cell commit in a single transaction;
// a failed run stores nothing.
func (s *Service) Plan(ctx context.Context, records []roster.Record) (*RunResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "planner", "Plan")
	defer span.End()

	startTime := time.Now()

	tl := timeline.New(records, s.slotMinutes)
	result, err := s.engine.Run(s.zones.Zones, records, tl)
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.PlanErrorsTotal.WithLabelValues("engine").Inc()
		return nil, err
	}

	runID := uuid.NewString()
	sched := schedule.Build(runID, result, s.slotMinutes)

	run := models.ScheduleRun{
		ID:             runID,
		SlotMinutes:    s.slotMinutes,
		TimelineStart:  tl.Start(),
		TimelineEnd:    tl.End(),
		ZoneCount:      len(s.zones.Zones),
		EmployeeCount:  len(records),
		SlotCount:      len(tl.Slots()),
		UnstaffedSlots: result.UnstaffedCount(),
	}

	if s.db != nil {
		if err := s.persist(ctx, run, sched); err != nil {
			telemetry.RecordError(span, err)
			telemetry.PlanErrorsTotal.WithLabelValues("persist").Inc()
			return nil, err
		}
	}

	telemetry.PlanRunsTotal.Inc()
	telemetry.PlanBuildDuration.Observe(time.Since(startTime).Seconds())
	telemetry.UnstaffedSlots.Set(float64(run.UnstaffedSlots))
	telemetry.ZoneCoverage.Set(sched.Coverage())
	telemetry.AddSpanAttributes(span, map[string]any{
		"run_id":    runID,
		"slots":     run.SlotCount,
		"zones":     run.ZoneCount,
		"employees": run.EmployeeCount,
		"unstaffed": run.UnstaffedSlots,
	})

	s.logger.Info().
		Str("run_id", runID).
		Int("slots", run.SlotCount).
		Int("zones", run.ZoneCount).
		Int("employees", run.EmployeeCount).
		Int("unstaffed", run.UnstaffedSlots).
		Msg("assignment run complete")

	return &RunResult{Run: run, Schedule: sched}, nil
}

func (s *Service) persist(ctx context.Context, run models.ScheduleRun, sched *schedule.Schedule) error {
	rows := make([]models.ZoneAssignment, 0, len(sched.Rows)*len(sched.Slots))
	for _, row := range sched.Rows {
		for i, slot := range sched.Slots {
			alias := row.Aliases[i]
			if alias == schedule.Unassigned {
				alias = ""
			}
			rows = append(rows, models.ZoneAssignment{
				ID:       uuid.NewString(),
				RunID:    run.ID,
				ZoneName: row.Zone,
				SlotAt:   slot,
				Alias:    alias,
			})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("store assignments: %w", err)
		}
		return nil
	})
}

// PlanFromStore loads the roster and zone layout from the database and
// runs Plan. Zones stored in the database take precedence over the
// configured layout, falling back to it when the table is empty.
func (s *Service) PlanFromStore(ctx context.Context) (*RunResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("planner has no database")
	}

	var employees []models.Employee
	if err := s.db.WithContext(ctx).Order("alias ASC").Find(&employees).Error; err != nil {
		telemetry.PlanErrorsTotal.WithLabelValues("load_roster").Inc()
		return nil, fmt.Errorf("load roster: %w", err)
	}

	records := make([]roster.Record, len(employees))
	for i, emp := range employees {
		records[i] = roster.Record{
			Alias:  emp.Alias,
			Skills: emp.Skills,
			Start:  emp.ShiftStart,
			End:    emp.ShiftEnd,
		}
	}

	var zones []models.Zone
	if err := s.db.WithContext(ctx).Order("position ASC, name ASC").Find(&zones).Error; err != nil {
		telemetry.PlanErrorsTotal.WithLabelValues("load_zones").Inc()
		return nil, fmt.Errorf("load zones: %w", err)
	}
	if len(zones) > 0 {
		layout := zone.Config{Skills: s.zones.Skills, Zones: make([]zone.Definition, len(zones))}
		for i, z := range zones {
			layout.Zones[i] = zone.Definition{Name: z.Name, Skill: z.RequiredSkill}
		}
		run := *s
		run.zones = layout
		return run.Plan(ctx, records)
	}

	return s.Plan(ctx, records)
}

// Watch re-plans from the store on a fixed interval until the context is
// cancelled. A failed tick is logged and the loop continues.
func (s *Service) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("planner loop started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("planner loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.PlanFromStore(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("planning tick failed")
			}
		}
	}
}

// LatestRun returns the most recently stored run.
func (s *Service) LatestRun(ctx context.Context) (models.ScheduleRun, error) {
	var run models.ScheduleRun
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&run).Error
	return run, err
}

// ScheduleForRun rebuilds the schedule grid from a stored run. Zone
// ordering follows the zones table when available, else zone name.
func (s *Service) ScheduleForRun(ctx context.Context, runID string) (*schedule.Schedule, error) {
	var run models.ScheduleRun
	if err := s.db.WithContext(ctx).Where("id = ?", runID).First(&run).Error; err != nil {
		return nil, fmt.Errorf("run not found: %w", err)
	}

	var rows []models.ZoneAssignment
	if err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("slot_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	slotSet := map[time.Time]struct{}{}
	byZone := map[string]map[time.Time]string{}
	for _, row := range rows {
		slotSet[row.SlotAt] = struct{}{}
		if byZone[row.ZoneName] == nil {
			byZone[row.ZoneName] = map[time.Time]string{}
		}
		byZone[row.ZoneName][row.SlotAt] = row.Alias
	}

	slots := make([]time.Time, 0, len(slotSet))
	for slot := range slotSet {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })

	sched := &schedule.Schedule{
		RunID:       run.ID,
		SlotMinutes: run.SlotMinutes,
		Slots:       slots,
	}
	for _, name := range s.zoneOrder(ctx, byZone) {
		aliases := make([]string, len(slots))
		for i, slot := range slots {
			alias := byZone[name][slot]
			if alias == "" {
				alias = schedule.Unassigned
			}
			aliases[i] = alias
		}
		sched.Rows = append(sched.Rows, schedule.Row{
			Zone:    name,
			Skill:   s.skillFor(ctx, name),
			Aliases: aliases,
		})
	}

	return sched, nil
}

func (s *Service) zoneOrder(ctx context.Context, byZone map[string]map[time.Time]string) []string {
	var stored []models.Zone
	if err := s.db.WithContext(ctx).Order("position ASC, name ASC").Find(&stored).Error; err == nil && len(stored) > 0 {
		var names []string
		for _, z := range stored {
			if _, ok := byZone[z.Name]; ok {
				names = append(names, z.Name)
			}
		}
		if len(names) == len(byZone) {
			return names
		}
	}

	names := make([]string, 0, len(byZone))
	for name := range byZone {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) skillFor(ctx context.Context, zoneName string) string {
	for _, def := range s.zones.Zones {
		if def.Name == zoneName {
			return def.Skill
		}
	}
	var z models.Zone
	if err := s.db.WithContext(ctx).Where("name = ?", zoneName).First(&z).Error; err == nil {
		return z.RequiredSkill
	}
	return ""
}
