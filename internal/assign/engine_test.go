/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/zoneshift/internal/roster"
	"github.com/friendsincode/zoneshift/internal/timeline"
	"github.com/friendsincode/zoneshift/internal/zone"
)

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse(roster.TimeLayout, "2026-03-02 "+clock)
	if err != nil {
		t.Fatalf("parse %q: %v", clock, err)
	}
	return ts
}

func rec(t *testing.T, alias string, skills []string, start, end string) roster.Record {
	t.Helper()
	return roster.Record{
		Alias:  alias,
		Skills: skills,
		Start:  at(t, start),
		End:    at(t, end),
	}
}

func run(t *testing.T, defs []zone.Definition, records []roster.Record) *Result {
	t.Helper()
	engine := New(zerolog.Nop())
	result, err := engine.Run(defs, records, timeline.New(records, 30))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func zoneByName(t *testing.T, result *Result, name string) ZoneSchedule {
	t.Helper()
	for _, z := range result.Zones {
		if z.Name == name {
			return z
		}
	}
	t.Fatalf("zone %s not in result", name)
	return ZoneSchedule{}
}

func TestSingleEmployeeCoversZoneForWholeShift(t *testing.T) {
	defs := []zone.Definition{{Name: "Cashier", Skill: "CSH"}}
	records := []roster.Record{
		rec(t, "kempkyan", []string{"CSH"}, "09:00", "17:00"),
	}

	result := run(t, defs, records)

	if len(result.Slots) != 16 {
		t.Fatalf("slots = %d, want 16", len(result.Slots))
	}
	for i, alias := range result.Zones[0].Aliases {
		if alias != "kempkyan" {
			t.Fatalf("slot %d assigned to %q, want kempkyan", i, alias)
		}
	}
}

func TestNoRotationWhileHolderStaysEligible(t *testing.T) {
	// Two cashier zones, two cashiers with overlapping shifts. Each zone
	// must stay with one cashier until that cashier goes off shift; the
	// remaining cashier is never pulled across zones.
	defs := []zone.Definition{
		{Name: "Front", Skill: "CSH"},
		{Name: "Back", Skill: "CSH"},
	}
	records := []roster.Record{
		rec(t, "early", []string{"CSH"}, "09:00", "13:00"),
		rec(t, "late", []string{"CSH"}, "10:00", "17:00"),
	}

	result := run(t, defs, records)

	front := zoneByName(t, result, "Front")
	back := zoneByName(t, result, "Back")

	for i, slot := range result.Slots {
		switch {
		case slot.Before(at(t, "13:00")):
			if front.Aliases[i] != "early" {
				t.Fatalf("Front at %v = %q, want early", slot, front.Aliases[i])
			}
		default:
			if front.Aliases[i] != "" {
				t.Fatalf("Front at %v = %q, want unstaffed", slot, front.Aliases[i])
			}
		}
		switch {
		case slot.Before(at(t, "10:00")):
			if back.Aliases[i] != "" {
				t.Fatalf("Back at %v = %q, want unstaffed", slot, back.Aliases[i])
			}
		default:
			if back.Aliases[i] != "late" {
				t.Fatalf("Back at %v = %q, want late", slot, back.Aliases[i])
			}
		}
	}
}

func TestZoneWithNoEligibleSkillStaysUnstaffed(t *testing.T) {
	defs := []zone.Definition{{Name: "Stock", Skill: "STK"}}
	records := []roster.Record{
		rec(t, "kempkyan", []string{"CSH"}, "09:00", "17:00"),
	}

	result := run(t, defs, records)

	for i, alias := range result.Zones[0].Aliases {
		if alias != "" {
			t.Fatalf("slot %d assigned to %q, want unstaffed", i, alias)
		}
	}
	if got := result.UnstaffedCount(); got != len(result.Slots) {
		t.Fatalf("unstaffed = %d, want %d", got, len(result.Slots))
	}
}

func TestShiftEndBoundaryIsExclusive(t *testing.T) {
	defs := []zone.Definition{{Name: "Cashier", Skill: "CSH"}}
	records := []roster.Record{
		rec(t, "morning", []string{"CSH"}, "09:00", "12:00"),
		rec(t, "allday", []string{"ENT"}, "09:00", "17:00"),
	}

	result := run(t, defs, records)

	noon := at(t, "12:00")
	for i, slot := range result.Slots {
		alias := result.Zones[0].Aliases[i]
		if slot.Before(noon) {
			if alias != "morning" {
				t.Fatalf("slot %v = %q, want morning", slot, alias)
			}
		} else if alias != "" {
			t.Fatalf("slot %v = %q, want unstaffed after shift end", slot, alias)
		}
	}
}

func TestEmployeeHoldsAtMostOneZonePerSlot(t *testing.T) {
	defs := []zone.Definition{
		{Name: "Front", Skill: "CSH"},
		{Name: "Back", Skill: "CSH"},
	}
	records := []roster.Record{
		rec(t, "solo", []string{"CSH"}, "09:00", "17:00"),
	}

	result := run(t, defs, records)

	for i := range result.Slots {
		holders := 0
		for _, z := range result.Zones {
			if z.Aliases[i] == "solo" {
				holders++
			}
		}
		if holders != 1 {
			t.Fatalf("slot %d: solo holds %d zones, want 1", i, holders)
		}
	}
}

func TestOpenZonePrefersLongestPresentCandidate(t *testing.T) {
	// When Front opens at 12:00 both idle candidates are on shift; the
	// one present since 10:00 wins over the lexically-smaller 11:00
	// arrival.
	defs := []zone.Definition{
		{Name: "Front", Skill: "CSH"},
		{Name: "Back", Skill: "CSH"},
	}
	records := []roster.Record{
		rec(t, "holder", []string{"CSH"}, "09:00", "12:00"),
		rec(t, "keeper", []string{"CSH"}, "09:00", "17:00"),
		rec(t, "zed", []string{"CSH"}, "10:00", "17:00"),
		rec(t, "amy", []string{"CSH"}, "11:00", "17:00"),
	}

	result := run(t, defs, records)

	front := zoneByName(t, result, "Front")
	for i, slot := range result.Slots {
		if slot.Before(at(t, "12:00")) {
			continue
		}
		if front.Aliases[i] != "zed" {
			t.Fatalf("Front at %v = %q, want zed", slot, front.Aliases[i])
		}
	}
}

func TestEqualStartTimesFallBackToLexicalOrder(t *testing.T) {
	defs := []zone.Definition{{Name: "Cashier", Skill: "CSH"}}
	records := []roster.Record{
		rec(t, "zed", []string{"CSH"}, "09:00", "17:00"),
		rec(t, "amy", []string{"CSH"}, "09:00", "17:00"),
	}

	result := run(t, defs, records)

	if result.Zones[0].Aliases[0] != "amy" {
		t.Fatalf("first slot = %q, want amy", result.Zones[0].Aliases[0])
	}
}

func TestRunIsDeterministic(t *testing.T) {
	defs := []zone.Definition{
		{Name: "Entrance", Skill: "ENT"},
		{Name: "Cashier", Skill: "CSH"},
		{Name: "Customer Service", Skill: "CSS"},
	}
	records := []roster.Record{
		rec(t, "kempkyan", []string{"CSS"}, "09:00", "13:00"),
		rec(t, "fizzyfiz", []string{"ENT", "CSH", "CSS"}, "10:00", "13:00"),
		rec(t, "jennfowl", []string{"ENT", "CSH", "CSS"}, "11:00", "17:00"),
		rec(t, "night1", []string{"ENT", "CSH"}, "12:00", "17:00"),
	}

	first := run(t, defs, records)
	second := run(t, defs, records)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input produced different schedules")
	}

	// Record order must not matter: the engine picks by explicit
	// tie-break rules, not input position.
	reversed := make([]roster.Record, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}
	third := run(t, defs, reversed)
	if !reflect.DeepEqual(first, third) {
		t.Fatal("reordered input produced a different schedule")
	}
}

func TestEmptyInputsProduceTrivialSchedule(t *testing.T) {
	engine := New(zerolog.Nop())

	result, err := engine.Run(nil, nil, timeline.New(nil, 30))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Slots) != 0 || len(result.Zones) != 0 {
		t.Fatalf("expected empty schedule, got %d slots %d zones", len(result.Slots), len(result.Zones))
	}

	// Zones but nobody on the roster: full grid, all unstaffed.
	defs := []zone.Definition{{Name: "Cashier", Skill: "CSH"}}
	result, err = engine.Run(defs, nil, timeline.New(nil, 30))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Zones) != 1 || len(result.Zones[0].Aliases) != 0 {
		t.Fatalf("expected one empty zone history, got %+v", result.Zones)
	}
}

func TestContractViolationFailsFast(t *testing.T) {
	engine := New(zerolog.Nop())
	defs := []zone.Definition{{Name: "Cashier", Skill: "CSH"}}

	cases := []struct {
		name    string
		records []roster.Record
		want    string
	}{
		{
			name: "duplicate alias",
			records: []roster.Record{
				rec(t, "dup", []string{"CSH"}, "09:00", "12:00"),
				rec(t, "dup", []string{"CSH"}, "12:00", "17:00"),
			},
			want: "duplicate alias",
		},
		{
			name: "missing skill",
			records: []roster.Record{
				{Alias: "bare", Start: at(t, "09:00"), End: at(t, "17:00")},
			},
			want: "no skills",
		},
		{
			name: "inverted window",
			records: []roster.Record{
				{Alias: "flip", Skills: []string{"CSH"}, Start: at(t, "17:00"), End: at(t, "09:00")},
			},
			want: "ends before it starts",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Run(defs, tc.records, timeline.New(nil, 30))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
