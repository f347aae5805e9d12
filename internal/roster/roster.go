/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package roster parses and validates the schedule inputs: the uploaded
// shift CSV and the skills database. Validation happens entirely here —
// the assignment engine only ever sees well-formed records.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// TimeLayout is the timestamp format used by roster CSV files.
const TimeLayout = "2006-01-02 15:04"

// Record is one validated roster entry handed to the assignment engine.
type Record struct {
	Alias  string
	Skills []string
	Start  time.Time
	End    time.Time
}

// HasSkill reports whether the record carries the given skill.
func (r Record) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// OnShift reports whether the half-open window [Start, End) covers t.
// An employee whose shift ends at 12:00 is not on shift at 12:00, which
// keeps shift-change boundaries from double-booking.
func (r Record) OnShift(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ParseCSV reads a roster CSV (columns Alias, Start Time, End Time) and
// resolves each alias against the skills database. Every failure names
// the offending line so the caller can surface it directly.
func ParseCSV(r io.Reader, skills SkillsDB) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("roster CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read roster CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"Alias", "Start Time", "End Time"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("roster CSV missing required column %q", required)
		}
	}

	var records []Record
	seen := map[string]int{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: read roster CSV: %w", line, err)
		}

		alias := row[cols["Alias"]]
		if alias == "" {
			return nil, fmt.Errorf("line %d: empty alias", line)
		}
		if prev, dup := seen[alias]; dup {
			return nil, fmt.Errorf("line %d: duplicate alias %s (first on line %d)", line, alias, prev)
		}
		seen[alias] = line

		empSkills, known := skills[alias]
		if !known {
			return nil, fmt.Errorf("line %d: unknown employee alias %s", line, alias)
		}

		start, err := time.Parse(TimeLayout, row[cols["Start Time"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid start time for %s: %w", line, alias, err)
		}
		end, err := time.Parse(TimeLayout, row[cols["End Time"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid end time for %s: %w", line, alias, err)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("line %d: shift for %s ends before it starts", line, alias)
		}

		records = append(records, Record{
			Alias:  alias,
			Skills: empSkills,
			Start:  start,
			End:    end,
		})
	}

	return records, nil
}

// LoadCSV reads a roster CSV from a file path.
func LoadCSV(path string, skills SkillsDB) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster CSV: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, skills)
}
