/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// RenderTable writes the grid as an aligned text table, one row per slot
// and one column per zone.
func (s *Schedule) RenderTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "Time")
	for _, row := range s.Rows {
		fmt.Fprintf(tw, "\t%s", row.Zone)
	}
	fmt.Fprintln(tw)

	for i, slot := range s.Slots {
		fmt.Fprint(tw, slot.Format("15:04"))
		for _, row := range s.Rows {
			cell := row.Aliases[i]
			if cell == Unassigned {
				cell = "-"
			}
			fmt.Fprintf(tw, "\t%s", cell)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
