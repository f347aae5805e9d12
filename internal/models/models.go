/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// Employee is a roster entry: one worker with a shift window and the
// skills the store has on file for them.
type Employee struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Alias      string    `gorm:"uniqueIndex;not null" json:"alias"`
	Skills     []string  `gorm:"type:jsonb;serializer:json" json:"skills"`
	ShiftStart time.Time `gorm:"not null" json:"shift_start"`
	ShiftEnd   time.Time `gorm:"not null" json:"shift_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Employee) TableName() string {
	return "employees"
}

// Zone is a store area staffed by at most one employee per time slot.
type Zone struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string `gorm:"uniqueIndex;not null" json:"name"`
	RequiredSkill string `gorm:"type:varchar(16);not null" json:"required_skill"`

	// Position fixes the display and iteration order of zones.
	Position int `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Zone) TableName() string {
	return "zones"
}

// ScheduleRun records one completed engine run and its timeline bounds.
type ScheduleRun struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	SlotMinutes   int       `gorm:"not null" json:"slot_minutes"`
	TimelineStart time.Time `json:"timeline_start"`
	TimelineEnd   time.Time `json:"timeline_end"`

	ZoneCount      int `json:"zone_count"`
	EmployeeCount  int `json:"employee_count"`
	SlotCount      int `json:"slot_count"`
	UnstaffedSlots int `json:"unstaffed_slots"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (ScheduleRun) TableName() string {
	return "schedule_runs"
}

// ZoneAssignment is one cell of a run's schedule grid. An empty Alias
// means the zone was unstaffed for that slot; the row is still written
// so consumers always read a full grid.
type ZoneAssignment struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	RunID    string    `gorm:"type:uuid;index:idx_zone_assignments_run;not null" json:"run_id"`
	ZoneName string    `gorm:"index;not null" json:"zone_name"`
	SlotAt   time.Time `gorm:"index;not null" json:"slot_at"`
	Alias    string    `json:"alias"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (ZoneAssignment) TableName() string {
	return "zone_assignments"
}
