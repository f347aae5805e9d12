/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package timeline derives the discrete slot grid for a run and the
// availability index over it. Both are pure views of the roster records:
// recomputable at any time, never mutated by the engine.
package timeline

import (
	"sort"
	"time"

	"github.com/friendsincode/zoneshift/internal/roster"
)

// Timeline is the ordered set of slots spanning the union of all shift
// windows, at a fixed granularity.
type Timeline struct {
	slotLength time.Duration
	slots      []time.Time
}

// New builds the timeline for the given records. The start is floored
// and the end ceiled to slot boundaries so the grid has no gaps; an
// empty roster yields an empty timeline.
func New(records []roster.Record, slotMinutes int) *Timeline {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	slotLength := time.Duration(slotMinutes) * time.Minute
	tl := &Timeline{slotLength: slotLength}
	if len(records) == 0 {
		return tl
	}

	start, end := records[0].Start, records[0].End
	for _, rec := range records[1:] {
		if rec.Start.Before(start) {
			start = rec.Start
		}
		if rec.End.After(end) {
			end = rec.End
		}
	}

	start = start.Truncate(slotLength)
	for cursor := start; cursor.Before(end); cursor = cursor.Add(slotLength) {
		tl.slots = append(tl.slots, cursor)
	}
	return tl
}

// Slots returns the slot instants in chronological order.
func (t *Timeline) Slots() []time.Time {
	return t.slots
}

// SlotLength returns the slot granularity.
func (t *Timeline) SlotLength() time.Duration {
	return t.slotLength
}

// Start returns the first slot instant, or the zero time when empty.
func (t *Timeline) Start() time.Time {
	if len(t.slots) == 0 {
		return time.Time{}
	}
	return t.slots[0]
}

// End returns the instant just past the last slot, or the zero time when
// empty.
func (t *Timeline) End() time.Time {
	if len(t.slots) == 0 {
		return time.Time{}
	}
	return t.slots[len(t.slots)-1].Add(t.slotLength)
}

// Index answers which employees are on shift at each slot. Membership
// uses the half-open [start, end) window, so a shift ending exactly on a
// slot boundary does not cover that slot.
type Index struct {
	records []roster.Record
}

// NewIndex builds an availability index. Records are ordered by shift
// start then alias so every lookup returns a deterministic order.
func NewIndex(records []roster.Record) *Index {
	sorted := make([]roster.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].Alias < sorted[j].Alias
	})
	return &Index{records: sorted}
}

// OnShift returns the employees whose shift window covers the slot.
func (ix *Index) OnShift(slot time.Time) []roster.Record {
	var out []roster.Record
	for _, rec := range ix.records {
		if rec.OnShift(slot) {
			out = append(out, rec)
		}
	}
	return out
}
