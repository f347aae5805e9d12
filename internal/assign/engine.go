/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package assign implements the zone assignment engine: one employee per
// zone per slot, chosen slot by slot across the timeline with a strong
// preference for keeping whoever already holds the zone.
package assign

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/zoneshift/internal/roster"
	"github.com/friendsincode/zoneshift/internal/timeline"
	"github.com/friendsincode/zoneshift/internal/zone"
)

// ZoneSchedule is one zone's assignment history. Aliases runs parallel
// to the result's Slots; an empty string marks an unstaffed slot.
type ZoneSchedule struct {
	Name    string
	Skill   string
	Aliases []string
}

// Result is the full grid produced by one engine run.
type Result struct {
	Slots []time.Time
	Zones []ZoneSchedule
}

// UnstaffedCount returns the number of zone/slot cells with no employee.
func (r *Result) UnstaffedCount() int {
	n := 0
	for _, z := range r.Zones {
		for _, alias := range z.Aliases {
			if alias == "" {
				n++
			}
		}
	}
	return n
}

// Engine assigns employees to zones. An Engine holds no per-run state:
// every Run builds fresh zone histories, so concurrent runs on separate
// inputs never share anything mutable.
type Engine struct {
	logger zerolog.Logger
}

// New constructs an engine.
func New(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger.With().Str("component", "assign_engine").Logger()}
}

// zoneState tracks one zone across the slot walk.
type zoneState struct {
	def     zone.Definition
	current string
	aliases []string
	// lastHeld records, per alias, the most recent slot index at which
	// that alias held this zone. Drives the resume-after-gap tie-break.
	lastHeld map[string]int
}

// Run walks the timeline slot by slot and produces the assignment grid.
//
// Per slot, in order: zones keep their current employee while that
// employee is still on shift and skill-eligible; zones left open pick
// from the unclaimed on-shift pool by (most recent previous holder of
// this zone, earliest shift start, lexical alias). An employee holds at
// most one zone per slot; zones with no eligible candidate stay open for
// the slot, which is a normal outcome. The walk is fully deterministic.
//
// Input invariants are re-checked before any history is written: a
// violation means the caller skipped validation, and Run fails fast
// rather than emit a silently wrong schedule.
func (e *Engine) Run(defs []zone.Definition, records []roster.Record, tl *timeline.Timeline) (*Result, error) {
	if err := checkContract(defs, records); err != nil {
		return nil, err
	}

	byAlias := make(map[string]roster.Record, len(records))
	for _, rec := range records {
		byAlias[rec.Alias] = rec
	}

	states := make([]*zoneState, len(defs))
	for i, def := range defs {
		states[i] = &zoneState{def: def, lastHeld: make(map[string]int)}
	}

	index := timeline.NewIndex(records)
	slots := tl.Slots()

	for slotIdx, slot := range slots {
		onShift := index.OnShift(slot)
		claimed := make(map[string]bool, len(defs))

		// Continuity pass: a zone keeps its employee while they remain
		// on shift and eligible. Retentions claim employees before any
		// open zone gets to pick.
		for _, st := range states {
			if st.current == "" {
				continue
			}
			rec, ok := byAlias[st.current]
			if ok && rec.OnShift(slot) && rec.HasSkill(st.def.Skill) && !claimed[st.current] {
				claimed[st.current] = true
				continue
			}
			st.current = ""
		}

		// Fill pass: open zones pick from the unclaimed pool.
		for _, st := range states {
			if st.current != "" {
				continue
			}
			picked := pickCandidate(st, onShift, claimed)
			if picked == "" {
				continue
			}
			st.current = picked
			claimed[picked] = true
		}

		for _, st := range states {
			st.aliases = append(st.aliases, st.current)
			if st.current != "" {
				st.lastHeld[st.current] = slotIdx
			}
		}
	}

	result := &Result{Slots: slots, Zones: make([]ZoneSchedule, len(states))}
	for i, st := range states {
		result.Zones[i] = ZoneSchedule{
			Name:    st.def.Name,
			Skill:   st.def.Skill,
			Aliases: st.aliases,
		}
	}

	e.logger.Debug().
		Int("zones", len(defs)).
		Int("employees", len(records)).
		Int("slots", len(slots)).
		Int("unstaffed", result.UnstaffedCount()).
		Msg("assignment run complete")

	return result, nil
}

// pickCandidate selects the best unclaimed on-shift employee for an open
// zone, or "" when nobody qualifies.
//
// Preference order: the candidate who most recently held this exact zone
// (resuming after a gap), then the candidate with the earliest shift
// start, then lexical alias order.
func pickCandidate(st *zoneState, onShift []roster.Record, claimed map[string]bool) string {
	best := ""
	var bestRec roster.Record
	bestHeld := -1

	for _, rec := range onShift {
		if claimed[rec.Alias] || !rec.HasSkill(st.def.Skill) {
			continue
		}
		held, ok := st.lastHeld[rec.Alias]
		if !ok {
			held = -1
		}
		if best == "" || betterCandidate(rec, held, bestRec, bestHeld) {
			best, bestRec, bestHeld = rec.Alias, rec, held
		}
	}

	return best
}

func betterCandidate(a roster.Record, aHeld int, b roster.Record, bHeld int) bool {
	if aHeld != bHeld {
		return aHeld > bHeld
	}
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return a.Alias < b.Alias
}

// checkContract re-validates the input collaborator's guarantees. Runs
// abort here, before any zone history exists, so a failed run never
// leaves partial state behind.
func checkContract(defs []zone.Definition, records []roster.Record) error {
	zoneNames := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("assignment contract violated: zone with empty name")
		}
		if def.Skill == "" {
			return fmt.Errorf("assignment contract violated: zone %s has no required skill", def.Name)
		}
		if _, dup := zoneNames[def.Name]; dup {
			return fmt.Errorf("assignment contract violated: duplicate zone %s", def.Name)
		}
		zoneNames[def.Name] = struct{}{}
	}

	aliases := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Alias == "" {
			return fmt.Errorf("assignment contract violated: employee with empty alias")
		}
		if _, dup := aliases[rec.Alias]; dup {
			return fmt.Errorf("assignment contract violated: duplicate alias %s", rec.Alias)
		}
		aliases[rec.Alias] = struct{}{}
		if len(rec.Skills) == 0 {
			return fmt.Errorf("assignment contract violated: employee %s has no skills", rec.Alias)
		}
		for _, s := range rec.Skills {
			if s == "" {
				return fmt.Errorf("assignment contract violated: employee %s has an empty skill", rec.Alias)
			}
		}
		if !rec.Start.Before(rec.End) {
			return fmt.Errorf("assignment contract violated: shift for %s ends before it starts", rec.Alias)
		}
	}

	return nil
}
