package output

import (
	"encoding/json"
	"io"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

type jsonLease struct {
	IP       string `json:"ip"`
	Ethernet string `json:"ethernet,omitempty"`
}

type jsonRange struct {
	SharedNet     string      `json:"shared_net"`
	FirstIP       string      `json:"first_ip"`
	LastIP        string      `json:"last_ip"`
	Max           float64     `json:"max"`
	Used          int64       `json:"used"`
	Percent       float64     `json:"percent"`
	Touched       int64       `json:"touched"`
	TC            int64       `json:"tc"`
	TCPercent     float64     `json:"tc_percent"`
	Backups       *int64      `json:"backups,omitempty"`
	BackupPercent *float64    `json:"backup_percent,omitempty"`
	Status        string      `json:"status"`
	ActiveLeases  []jsonLease `json:"active_leases,omitempty"`
}

type jsonShared struct {
	Name          string   `json:"name"`
	Max           float64  `json:"max"`
	Used          int64    `json:"used"`
	Percent       float64  `json:"percent"`
	Touched       int64    `json:"touched"`
	TC            int64    `json:"tc"`
	TCPercent     float64  `json:"tc_percent"`
	Backups       *int64   `json:"backups,omitempty"`
	BackupPercent *float64 `json:"backup_percent,omitempty"`
	Status        string   `json:"status"`
}

type jsonReport struct {
	Ranges         []jsonRange  `json:"ranges,omitempty"`
	SharedNetworks []jsonShared `json:"shared_networks,omitempty"`
	Summary        *jsonShared  `json:"summary,omitempty"`
}

func renderJSON(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits, details bool) error {
	ranges, shared, summary := rows(a, cfg)
	backups := a.Leases.BackupsFound()

	var report jsonReport
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			jr := jsonRange{
				SharedNet: r.SharedNet.Name,
				FirstIP:   a.Family.String(r.First),
				LastIP:    a.Family.String(r.Last),
				Max:       row.Size,
				Used:      r.Used,
				Percent:   row.Percent,
				Touched:   r.Touched,
				TC:        row.TC,
				TCPercent: row.TCPercent,
				Status:    row.Status.String(),
			}
			if backups {
				jr.Backups = &r.Backups
				bp := row.BackupPercent
				jr.BackupPercent = &bp
			}
			if details {
				for _, l := range a.ActiveLeases(r) {
					jr.ActiveLeases = append(jr.ActiveLeases, jsonLease{
						IP:       a.Family.String(l.IP),
						Ethernet: l.Ethernet,
					})
				}
			}
			report.Ranges = append(report.Ranges, jr)
		}
	}
	toShared := func(row SharedRow) jsonShared {
		sn := row.Net
		js := jsonShared{
			Name:      sn.Name,
			Max:       sn.Available,
			Used:      sn.Used,
			Percent:   row.Percent,
			Touched:   sn.Touched,
			TC:        row.TC,
			TCPercent: row.TCPercent,
			Status:    row.Status.String(),
		}
		if backups {
			js.Backups = &sn.Backups
			bp := row.BackupPercent
			js.BackupPercent = &bp
		}
		return js
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			report.SharedNetworks = append(report.SharedNetworks, toShared(row))
		}
	}
	if lim.Values&limitSummary != 0 {
		js := toShared(summary)
		report.Summary = &js
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&report)
}
