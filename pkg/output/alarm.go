package output

import (
	"fmt"
	"io"
	"strings"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

// alarmEntity is one monitored thing in the Nagios output: a range or a
// shared network with its verdict.
type alarmEntity struct {
	label      string
	status     Status
	percent    float64
	free       float64
	size       float64
	used       int64
	minsize    bool // too small to alarm on
	suppressed bool // snet-alarms moved the alarm to the network
}

// renderAlarm emits a Nagios plugin report: a status line, detail rows
// for everything not filtered by --skip, and optional perfdata.  The
// returned int is the process exit code, the worst live verdict.
func renderAlarm(w io.Writer, a *analysis.Audit, cfg *model.Config) (int, error) {
	ranges, shared, _ := rows(a, cfg)

	var entities []alarmEntity
	for _, row := range ranges {
		r := row.Range
		entities = append(entities, alarmEntity{
			label: fmt.Sprintf("range %s - %s (%s)",
				a.Family.String(r.First), a.Family.String(r.Last), r.SharedNet.Name),
			status:     row.Status,
			percent:    row.Percent,
			free:       row.Free,
			size:       row.Size,
			used:       r.Used,
			minsize:    row.BelowMinsize,
			suppressed: row.Suppressed,
		})
	}
	for _, row := range shared {
		entities = append(entities, alarmEntity{
			label:   fmt.Sprintf("network %s", row.Net.Name),
			status:  row.Status,
			percent: row.Percent,
			free:    row.Free,
			size:    row.Net.Available,
			used:    row.Net.Used,
			minsize: row.BelowMinsize,
		})
	}

	worst := StateOK
	var crit, warn, ok, ignored int
	for _, e := range entities {
		if e.suppressed || e.minsize {
			ignored++
			continue
		}
		switch e.status {
		case StateCritical:
			crit++
		case StateWarning:
			warn++
		default:
			ok++
		}
		if e.status > worst {
			worst = e.status
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "POOLSTAT %s: %d critical, %d warning, %d ok", worst, crit, warn, ok)
	if ignored > 0 {
		fmt.Fprintf(&b, ", %d ignored", ignored)
	}
	if cfg.Perfdata {
		b.WriteString(" |")
		for _, e := range entities {
			if e.suppressed || e.minsize {
				continue
			}
			// label 'used'=VAL;warn;crit;0;max in standard perfdata form.
			fmt.Fprintf(&b, " '%s'=%d;%.0f;%.0f;0;%.0f",
				e.label, e.used,
				e.size*cfg.Warning/100, e.size*cfg.Critical/100, e.size)
		}
	}
	b.WriteByte('\n')

	for _, e := range entities {
		switch {
		case e.suppressed:
			if cfg.SkipSuppressed {
				continue
			}
			fmt.Fprintf(&b, "SUPPRESSED: %s %.1f%% used, %.0f free\n", e.label, e.percent, e.free)
			continue
		case e.minsize:
			if cfg.SkipMinsize {
				continue
			}
			fmt.Fprintf(&b, "IGNORED: %s below minimum size %.0f\n", e.label, cfg.MinSize)
			continue
		case e.status == StateOK && cfg.SkipOK:
			continue
		case e.status == StateWarning && cfg.SkipWarning:
			continue
		case e.status == StateCritical && cfg.SkipCritical:
			continue
		}
		fmt.Fprintf(&b, "%s: %s %.1f%% used, %.0f free\n", e.status, e.label, e.percent, e.free)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return int(worst), err
	}
	return int(worst), nil
}
