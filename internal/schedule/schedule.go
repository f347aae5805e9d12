/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package schedule flattens engine results into the consumer-facing grid
// and renders it in the supported export formats.
package schedule

import (
	"time"

	"github.com/friendsincode/zoneshift/internal/assign"
)

// Unassigned is the explicit marker written for every uncovered zone/slot
// cell, so consumers never need to special-case missing keys.
const Unassigned = "unassigned"

// Row is one zone's line in the grid.
type Row struct {
	Zone    string
	Skill   string
	Aliases []string // parallel to Slots, Unassigned where uncovered
}

// Schedule is the fully-populated zone×slot grid for one run.
type Schedule struct {
	RunID       string
	SlotMinutes int
	Slots       []time.Time
	Rows        []Row
}

// Build assembles the grid from an engine result. Every zone gets an
// entry for every slot.
func Build(runID string, result *assign.Result, slotMinutes int) *Schedule {
	s := &Schedule{
		RunID:       runID,
		SlotMinutes: slotMinutes,
		Slots:       result.Slots,
		Rows:        make([]Row, len(result.Zones)),
	}
	for i, z := range result.Zones {
		aliases := make([]string, len(result.Slots))
		for j := range result.Slots {
			alias := ""
			if j < len(z.Aliases) {
				alias = z.Aliases[j]
			}
			if alias == "" {
				alias = Unassigned
			}
			aliases[j] = alias
		}
		s.Rows[i] = Row{Zone: z.Name, Skill: z.Skill, Aliases: aliases}
	}
	return s
}

// ByZone returns the nested zone → clock-time → alias mapping used by
// the JSON export. Times render as e.g. "09:30 AM".
func (s *Schedule) ByZone() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.Rows))
	for _, row := range s.Rows {
		entries := make(map[string]string, len(s.Slots))
		for i, slot := range s.Slots {
			entries[slot.Format("03:04 PM")] = row.Aliases[i]
		}
		out[row.Zone] = entries
	}
	return out
}

// Coverage returns the fraction of zone/slot cells that are staffed, in
// [0, 1]. An empty grid counts as fully covered.
func (s *Schedule) Coverage() float64 {
	total := len(s.Rows) * len(s.Slots)
	if total == 0 {
		return 1
	}
	staffed := 0
	for _, row := range s.Rows {
		for _, alias := range row.Aliases {
			if alias != Unassigned {
				staffed++
			}
		}
	}
	return float64(staffed) / float64(total)
}
