package output

import (
	"html/template"
	"io"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>DHCP pool utilization</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #999; padding: 0.2em 0.6em; text-align: right; }
th:first-child, td:first-child { text-align: left; }
tr.WARNING { background: #ffe9a8; }
tr.CRITICAL { background: #ffb4a8; }
</style>
</head>
<body>
<h1>DHCP pool utilization</h1>
{{if .ShowRanges}}<h2>Ranges</h2>
<table>
{{if .RangeHeader}}<tr><th>shared net name</th><th>first ip</th><th>last ip</th><th>max</th><th>cur</th><th>percent</th><th>touch</th><th>t+c</th><th>t+c perc</th>{{if .Backups}}<th>bu</th><th>bu perc</th>{{end}}</tr>
{{end}}{{range .Ranges}}<tr class="{{.Status}}"><td>{{.SharedNet}}</td><td>{{.FirstIP}}</td><td>{{.LastIP}}</td><td>{{printf "%.0f" .Max}}</td><td>{{.Used}}</td><td>{{printf "%.3f" .Percent}}</td><td>{{.Touched}}</td><td>{{.TC}}</td><td>{{printf "%.3f" .TCPercent}}</td>{{if $.Backups}}<td>{{.BackupCount}}</td><td>{{printf "%.3f" .BackupPerc}}</td>{{end}}</tr>
{{end}}</table>
{{end}}{{if .ShowShared}}<h2>Shared networks</h2>
<table>
{{if .SharedHeader}}<tr><th>name</th><th>max</th><th>cur</th><th>percent</th><th>touch</th><th>t+c</th><th>t+c perc</th>{{if .Backups}}<th>bu</th><th>bu perc</th>{{end}}</tr>
{{end}}{{range .Shared}}<tr class="{{.Status}}"><td>{{.Name}}</td><td>{{printf "%.0f" .Max}}</td><td>{{.Used}}</td><td>{{printf "%.3f" .Percent}}</td><td>{{.Touched}}</td><td>{{.TC}}</td><td>{{printf "%.3f" .TCPercent}}</td>{{if $.Backups}}<td>{{.BackupCount}}</td><td>{{printf "%.3f" .BackupPerc}}</td>{{end}}</tr>
{{end}}</table>
{{end}}{{if .ShowSummary}}<h2>Sum of all ranges</h2>
<table>
{{if .SummaryHeader}}<tr><th>name</th><th>max</th><th>cur</th><th>percent</th><th>touch</th><th>t+c</th><th>t+c perc</th>{{if .Backups}}<th>bu</th><th>bu perc</th>{{end}}</tr>
{{end}}{{with .Summary}}<tr class="{{.Status}}"><td>{{.Name}}</td><td>{{printf "%.0f" .Max}}</td><td>{{.Used}}</td><td>{{printf "%.3f" .Percent}}</td><td>{{.Touched}}</td><td>{{.TC}}</td><td>{{printf "%.3f" .TCPercent}}</td>{{if $.Backups}}<td>{{.BackupCount}}</td><td>{{printf "%.3f" .BackupPerc}}</td>{{end}}</tr>
{{end}}</table>
{{end}}</body>
</html>
`

var htmlTemplate = template.Must(template.New("page").Parse(htmlPage))

type htmlRange struct {
	SharedNet, FirstIP, LastIP string
	Max                        float64
	Used, Touched, TC          int64
	Percent, TCPercent         float64
	BackupCount                int64
	BackupPerc                 float64
	Status                     string
}

type htmlShared struct {
	Name               string
	Max                float64
	Used, Touched, TC  int64
	Percent, TCPercent float64
	BackupCount        int64
	BackupPerc         float64
	Status             string
}

type htmlData struct {
	Backups                                    bool
	ShowRanges, ShowShared, ShowSummary        bool
	RangeHeader, SharedHeader, SummaryHeader   bool
	Ranges                                     []htmlRange
	Shared                                     []htmlShared
	Summary                                    *htmlShared
}

func renderHTML(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits) error {
	ranges, shared, summary := rows(a, cfg)

	data := htmlData{
		Backups:       a.Leases.BackupsFound(),
		ShowRanges:    (lim.Header|lim.Values)&limitRanges != 0,
		ShowShared:    (lim.Header|lim.Values)&limitShared != 0,
		ShowSummary:   (lim.Header|lim.Values)&limitSummary != 0,
		RangeHeader:   lim.Header&limitRanges != 0,
		SharedHeader:  lim.Header&limitShared != 0,
		SummaryHeader: lim.Header&limitSummary != 0,
	}
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			data.Ranges = append(data.Ranges, htmlRange{
				SharedNet:   r.SharedNet.Name,
				FirstIP:     a.Family.String(r.First),
				LastIP:      a.Family.String(r.Last),
				Max:         row.Size,
				Used:        r.Used,
				Touched:     r.Touched,
				TC:          row.TC,
				Percent:     row.Percent,
				TCPercent:   row.TCPercent,
				BackupCount: r.Backups,
				BackupPerc:  row.BackupPercent,
				Status:      row.Status.String(),
			})
		}
	}
	toShared := func(row SharedRow) htmlShared {
		sn := row.Net
		return htmlShared{
			Name:        sn.Name,
			Max:         sn.Available,
			Used:        sn.Used,
			Touched:     sn.Touched,
			TC:          row.TC,
			Percent:     row.Percent,
			TCPercent:   row.TCPercent,
			BackupCount: sn.Backups,
			BackupPerc:  row.BackupPercent,
			Status:      row.Status.String(),
		}
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			data.Shared = append(data.Shared, toShared(row))
		}
	}
	if lim.Values&limitSummary != 0 {
		s := toShared(summary)
		data.Summary = &s
	}
	return htmlTemplate.Execute(w, &data)
}
