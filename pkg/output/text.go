package output

import (
	"fmt"
	"io"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

const (
	ansiReset  = "\033[0m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// paint wraps a rendered line in a status color when coloring is on.
// OK rows stay uncolored.
func paint(line string, st Status, enabled bool) string {
	if !enabled || st == StateOK {
		return line
	}
	c := ansiYellow
	if st == StateCritical {
		c = ansiRed
	}
	return c + line + ansiReset
}

func renderText(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits) error {
	color, err := UseColor(w, cfg.Color)
	if err != nil {
		return err
	}
	ranges, shared, summary := rows(a, cfg)
	backups := a.Leases.BackupsFound()

	if lim.Header&limitRanges != 0 {
		fmt.Fprintln(w, "Ranges:")
		fmt.Fprintf(w, "%-20s %-18s   %-18s %8s %6s %8s %6s %6s %9s",
			"shared net name", "first ip", "last ip",
			"max", "cur", "percent", "touch", "t+c", "t+c perc")
		if backups {
			fmt.Fprintf(w, " %6s %8s", "bu", "bu perc")
		}
		fmt.Fprintln(w)
	}
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			line := fmt.Sprintf("%-20s %-18s - %-18s %8.0f %6d %8.3f %6d %6d %9.3f",
				r.SharedNet.Name, a.Family.String(r.First), a.Family.String(r.Last),
				row.Size, r.Used, row.Percent, r.Touched, row.TC, row.TCPercent)
			if backups {
				line += fmt.Sprintf(" %6d %8.3f", r.Backups, row.BackupPercent)
			}
			fmt.Fprintln(w, paint(line, row.Status, color))
		}
	}

	if lim.Header&limitShared != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Shared networks:")
		fmt.Fprintf(w, "%-20s %8s %6s %8s %6s %6s %9s",
			"name", "max", "cur", "percent", "touch", "t+c", "t+c perc")
		if backups {
			fmt.Fprintf(w, " %6s %8s", "bu", "bu perc")
		}
		fmt.Fprintln(w)
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			line := sharedLine(row, backups)
			fmt.Fprintln(w, paint(line, row.Status, color))
		}
	}

	if lim.Header&limitSummary != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sum of all ranges:")
		fmt.Fprintf(w, "%-20s %8s %6s %8s %6s %6s %9s",
			"name", "max", "cur", "percent", "touch", "t+c", "t+c perc")
		if backups {
			fmt.Fprintf(w, " %6s %8s", "bu", "bu perc")
		}
		fmt.Fprintln(w)
	}
	if lim.Values&limitSummary != 0 {
		fmt.Fprintln(w, paint(sharedLine(summary, backups), summary.Status, color))
	}
	return nil
}

func sharedLine(row SharedRow, backups bool) string {
	sn := row.Net
	line := fmt.Sprintf("%-20s %8.0f %6d %8.3f %6d %6d %9.3f",
		sn.Name, sn.Available, sn.Used, row.Percent, sn.Touched, row.TC, row.TCPercent)
	if backups {
		line += fmt.Sprintf(" %6d %8.3f", sn.Backups, row.BackupPercent)
	}
	return line
}
