/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportResult carries rendered export data plus transport hints.
type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportJSON renders the zone → time → alias mapping as indented JSON.
func (s *Schedule) ExportJSON() (*ExportResult, error) {
	data, err := json.MarshalIndent(s.ByZone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	return &ExportResult{
		Data:        data,
		Filename:    s.exportFilename("json"),
		ContentType: "application/json",
	}, nil
}

// ExportCSV renders the grid with one row per slot and one column per
// zone.
func (s *Schedule) ExportCSV() (*ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(s.Rows)+1)
	header = append(header, "Time")
	for _, row := range s.Rows {
		header = append(header, row.Zone)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write schedule CSV: %w", err)
	}

	for i, slot := range s.Slots {
		line := make([]string, 0, len(s.Rows)+1)
		line = append(line, slot.Format("15:04"))
		for _, row := range s.Rows {
			line = append(line, row.Aliases[i])
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write schedule CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write schedule CSV: %w", err)
	}

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    s.exportFilename("csv"),
		ContentType: "text/csv; charset=utf-8",
	}, nil
}

// ExportICal renders the schedule as an iCal calendar: one VEVENT per
// continuous stretch of a zone being held by the same employee.
func (s *Schedule) ExportICal() (*ExportResult, error) {
	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//Zoneshift//Schedule Export//EN\r\n")
	buf.WriteString("X-WR-CALNAME:Zone Coverage\r\n")
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	slotLength := time.Duration(s.SlotMinutes) * time.Minute
	for _, row := range s.Rows {
		for _, stretch := range stretches(row.Aliases) {
			if stretch.alias == Unassigned {
				continue
			}
			start := s.Slots[stretch.from]
			end := s.Slots[stretch.to].Add(slotLength)

			buf.WriteString("BEGIN:VEVENT\r\n")
			buf.WriteString(fmt.Sprintf("UID:%s-%s-%d@zoneshift\r\n", s.RunID, slugify(row.Zone), stretch.from))
			buf.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICalTime(time.Now())))
			buf.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICalTime(start)))
			buf.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICalTime(end)))
			buf.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICalText(row.Zone+": "+stretch.alias)))
			buf.WriteString("END:VEVENT\r\n")
		}
	}

	buf.WriteString("END:VCALENDAR\r\n")

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    s.exportFilename("ics"),
		ContentType: "text/calendar; charset=utf-8",
	}, nil
}

func (s *Schedule) exportFilename(ext string) string {
	day := "empty"
	if len(s.Slots) > 0 {
		day = s.Slots[0].Format("2006-01-02")
	}
	return fmt.Sprintf("zone-schedule-%s.%s", day, ext)
}

type stretch struct {
	alias    string
	from, to int // inclusive slot indexes
}

// stretches splits a zone's aliases into runs of the same value.
func stretches(aliases []string) []stretch {
	var out []stretch
	for i, alias := range aliases {
		if len(out) > 0 && out[len(out)-1].alias == alias {
			out[len(out)-1].to = i
			continue
		}
		out = append(out, stretch{alias: alias, from: i, to: i})
	}
	return out
}

// formatICalTime formats a time for iCal in UTC.
func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICalText escapes special characters per RFC 5545.
func escapeICalText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}

// slugify converts a zone name into a filename/UID-safe token.
func slugify(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
