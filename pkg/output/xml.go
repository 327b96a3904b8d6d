package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

type xmlLease struct {
	IP       string `xml:"ip,attr"`
	Ethernet string `xml:"ethernet,attr,omitempty"`
}

type xmlRange struct {
	XMLName       xml.Name   `xml:"range"`
	SharedNet     string     `xml:"shared_net"`
	FirstIP       string     `xml:"first_ip"`
	LastIP        string     `xml:"last_ip"`
	Max           float64    `xml:"max"`
	Used          int64      `xml:"used"`
	Percent       float64    `xml:"percent"`
	Touched       int64      `xml:"touched"`
	TC            int64      `xml:"tc"`
	TCPercent     float64    `xml:"tc_percent"`
	Backups       *int64     `xml:"backups,omitempty"`
	BackupPercent *float64   `xml:"backup_percent,omitempty"`
	Status        string     `xml:"status"`
	ActiveLeases  []xmlLease `xml:"lease,omitempty"`
}

type xmlShared struct {
	Name          string   `xml:"name"`
	Max           float64  `xml:"max"`
	Used          int64    `xml:"used"`
	Percent       float64  `xml:"percent"`
	Touched       int64    `xml:"touched"`
	TC            int64    `xml:"tc"`
	TCPercent     float64  `xml:"tc_percent"`
	Backups       *int64   `xml:"backups,omitempty"`
	BackupPercent *float64 `xml:"backup_percent,omitempty"`
	Status        string   `xml:"status"`
}

type xmlReport struct {
	XMLName        xml.Name    `xml:"poolstatus"`
	Ranges         []xmlRange  `xml:"range,omitempty"`
	SharedNetworks []xmlShared `xml:"shared_network,omitempty"`
	Summary        *xmlShared  `xml:"summary,omitempty"`
}

func renderXML(w io.Writer, a *analysis.Audit, cfg *model.Config, lim Limits, details bool) error {
	ranges, shared, summary := rows(a, cfg)
	backups := a.Leases.BackupsFound()

	var report xmlReport
	if lim.Values&limitRanges != 0 {
		for _, row := range ranges {
			r := row.Range
			xr := xmlRange{
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
				xr.Backups = &r.Backups
				bp := row.BackupPercent
				xr.BackupPercent = &bp
			}
			if details {
				for _, l := range a.ActiveLeases(r) {
					xr.ActiveLeases = append(xr.ActiveLeases, xmlLease{
						IP:       a.Family.String(l.IP),
						Ethernet: l.Ethernet,
					})
				}
			}
			report.Ranges = append(report.Ranges, xr)
		}
	}
	toShared := func(row SharedRow) xmlShared {
		sn := row.Net
		xs := xmlShared{
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
			xs.Backups = &sn.Backups
			bp := row.BackupPercent
			xs.BackupPercent = &bp
		}
		return xs
	}
	if lim.Values&limitShared != 0 {
		for _, row := range shared {
			report.SharedNetworks = append(report.SharedNetworks, toShared(row))
		}
	}
	if lim.Values&limitSummary != 0 {
		xs := toShared(summary)
		report.Summary = &xs
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&report); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
