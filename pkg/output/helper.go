package output

import (
	"poolstat/pkg/analysis"
	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// Status is a monitoring verdict for a range or shared network.  The
// numeric values double as Nagios exit codes.
type Status int

const (
	StateOK Status = iota
	StateWarning
	StateCritical
)

func (s Status) String() string {
	switch s {
	case StateWarning:
		return "WARNING"
	case StateCritical:
		return "CRITICAL"
	}
	return "OK"
}

// RangeRow is a range with its derived presentation values.  Every
// renderer consumes rows rather than recomputing percentages.
type RangeRow struct {
	Range         *model.Range
	Size          float64
	Free          float64
	Percent       float64
	TC            int64
	TCPercent     float64
	BackupPercent float64
	Status        Status
	BelowMinsize  bool
	Suppressed    bool // snet-alarms moved the verdict to the network
}

// SharedRow is a shared network (or the "All networks" aggregate) with
// its derived presentation values.
type SharedRow struct {
	Net           *model.SharedNetwork
	Free          float64
	Percent       float64
	TC            int64
	TCPercent     float64
	BackupPercent float64
	Status        Status
	BelowMinsize  bool
}

// evalStatus applies the dual thresholds: a percentage bound and a
// free-address-count bound.  Either one tripping raises the level, and
// critical is checked before warning.
func evalStatus(cfg *model.Config, percent, free float64) Status {
	if percent >= cfg.Critical || free <= cfg.CritCount {
		return StateCritical
	}
	if percent >= cfg.Warning || free <= cfg.WarnCount {
		return StateWarning
	}
	return StateOK
}

func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func buildRangeRow(fam ipaddr.Family, r *model.Range, cfg *model.Config) RangeRow {
	size := fam.RangeSize(r.First, r.Last)
	free := size - float64(r.Used)
	row := RangeRow{
		Range:         r,
		Size:          size,
		Free:          free,
		Percent:       pct(float64(r.Used), size),
		TC:            r.Used + r.Touched,
		TCPercent:     pct(float64(r.Used+r.Touched), size),
		BackupPercent: pct(float64(r.Backups), size),
		BelowMinsize:  size < cfg.MinSize,
	}
	row.Status = evalStatus(cfg, row.Percent, free)
	if cfg.SnetAlarms && r.SharedNet != nil && r.SharedNet.Name != analysis.AllNetworks {
		row.Suppressed = true
	}
	return row
}

func buildSharedRow(sn *model.SharedNetwork, cfg *model.Config) SharedRow {
	free := sn.Available - float64(sn.Used)
	row := SharedRow{
		Net:           sn,
		Free:          free,
		Percent:       pct(float64(sn.Used), sn.Available),
		TC:            sn.Used + sn.Touched,
		TCPercent:     pct(float64(sn.Used+sn.Touched), sn.Available),
		BackupPercent: pct(float64(sn.Backups), sn.Available),
		BelowMinsize:  sn.Available < cfg.MinSize,
	}
	row.Status = evalStatus(cfg, row.Percent, free)
	return row
}

// rows materializes the three presentation sections in their final
// order: ranges as sorted, shared networks in declaration order, and
// the "All networks" aggregate.
func rows(a *analysis.Audit, cfg *model.Config) (ranges []RangeRow, shared []SharedRow, summary SharedRow) {
	for _, r := range a.Ranges {
		ranges = append(ranges, buildRangeRow(a.Family, r, cfg))
	}
	for _, sn := range a.Networks.All()[1:] {
		shared = append(shared, buildSharedRow(sn, cfg))
	}
	summary = buildSharedRow(a.Networks.Root(), cfg)
	return ranges, shared, summary
}
