package output

import (
	"io"

	"github.com/xuri/excelize/v2"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

func renderXLSX(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits) error {
	ranges, shared, summary := rows(a, cfg)
	backups := a.Leases.BackupsFound()

	f := excelize.NewFile()
	defer f.Close()

	withBackups := func(row []interface{}, bu int64, buPerc float64) []interface{} {
		if backups {
			row = append(row, bu, buPerc)
		}
		return row
	}
	sharedSheetRow := func(row SharedRow) []interface{} {
		sn := row.Net
		return withBackups([]interface{}{
			sn.Name, sn.Available, sn.Used, row.Percent,
			sn.Touched, row.TC, row.TCPercent, row.Status.String(),
		}, sn.Backups, row.BackupPercent)
	}
	sharedHeader := func() []interface{} {
		if backups {
			return []interface{}{"name", "max", "cur", "percent", "touch", "t+c", "t+c perc", "bu", "bu perc", "status"}
		}
		return []interface{}{"name", "max", "cur", "percent", "touch", "t+c", "t+c perc", "status"}
	}

	rangeSheet := "Ranges"
	f.SetSheetName("Sheet1", rangeSheet)
	var rangeRows [][]interface{}
	if lim.Header&limitRanges != 0 {
		hdr := []interface{}{"shared net name", "first ip", "last ip",
			"max", "cur", "percent", "touch", "t+c", "t+c perc"}
		if backups {
			hdr = append(hdr, "bu", "bu perc")
		}
		rangeRows = append(rangeRows, append(hdr, "status"))
	}
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			rec := []interface{}{
				r.SharedNet.Name, a.Family.String(r.First), a.Family.String(r.Last),
				row.Size, r.Used, row.Percent, r.Touched, row.TC, row.TCPercent,
			}
			rec = withBackups(rec, r.Backups, row.BackupPercent)
			rangeRows = append(rangeRows, append(rec, row.Status.String()))
		}
	}
	writeSheetRows(f, rangeSheet, rangeRows)

	sharedSheet := "Shared networks"
	if _, err := f.NewSheet(sharedSheet); err != nil {
		return err
	}
	var sharedRows [][]interface{}
	if lim.Header&limitShared != 0 {
		sharedRows = append(sharedRows, sharedHeader())
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			sharedRows = append(sharedRows, sharedSheetRow(row))
		}
	}
	writeSheetRows(f, sharedSheet, sharedRows)

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	var summaryRows [][]interface{}
	if lim.Header&limitSummary != 0 {
		summaryRows = append(summaryRows, sharedHeader())
	}
	if lim.Values&limitSummary != 0 {
		summaryRows = append(summaryRows, sharedSheetRow(summary))
	}
	writeSheetRows(f, summarySheet, summaryRows)

	return f.Write(w)
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]interface{}) {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(sheet, cell, &row)
	}
}
