package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

func renderCSV(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits) error {
	cw := csv.NewWriter(w)
	ranges, shared, summary := rows(a, cfg)
	backups := a.Leases.BackupsFound()

	withBackups := func(rec []string, bu int64, buPerc float64) []string {
		if backups {
			rec = append(rec, strconv.FormatInt(bu, 10), formatFloat(buPerc))
		}
		return rec
	}

	if lim.Header&limitRanges != 0 {
		rec := []string{"shared net name", "first ip", "last ip",
			"max", "cur", "percent", "touch", "t+c", "t+c perc"}
		if backups {
			rec = append(rec, "bu", "bu perc")
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			rec := []string{
				r.SharedNet.Name,
				a.Family.String(r.First),
				a.Family.String(r.Last),
				formatFloat(row.Size),
				strconv.FormatInt(r.Used, 10),
				formatFloat(row.Percent),
				strconv.FormatInt(r.Touched, 10),
				strconv.FormatInt(row.TC, 10),
				formatFloat(row.TCPercent),
			}
			if err := cw.Write(withBackups(rec, r.Backups, row.BackupPercent)); err != nil {
				return err
			}
		}
	}

	sharedRec := func(row SharedRow) []string {
		sn := row.Net
		rec := []string{
			sn.Name,
			formatFloat(sn.Available),
			strconv.FormatInt(sn.Used, 10),
			formatFloat(row.Percent),
			strconv.FormatInt(sn.Touched, 10),
			strconv.FormatInt(row.TC, 10),
			formatFloat(row.TCPercent),
		}
		return withBackups(rec, sn.Backups, row.BackupPercent)
	}

	if lim.Header&limitShared != 0 {
		rec := []string{"shared net name", "max", "cur", "percent", "touch", "t+c", "t+c perc"}
		if backups {
			rec = append(rec, "bu", "bu perc")
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			if err := cw.Write(sharedRec(row)); err != nil {
				return err
			}
		}
	}

	if lim.Header&limitSummary != 0 {
		rec := []string{"summary", "max", "cur", "percent", "touch", "t+c", "t+c perc"}
		if backups {
			rec = append(rec, "bu", "bu perc")
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if lim.Values&limitSummary != 0 {
		if err := cw.Write(sharedRec(summary)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
