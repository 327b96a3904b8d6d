package analysis

import (
	"fmt"
	"sort"

	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// Audit is the single analysis context.  It owns the range table, the
// lease store, and the shared-network registry outright through every
// stage of the run: parse, prepare, count, sort, render.
type Audit struct {
	Family   ipaddr.Family // nil until detected or forced
	Ranges   []*model.Range
	Networks *Networks
	Leases   *LeaseStore
}

// NewAudit returns an empty context.  fam may be nil when the address
// family should be inferred from the input.
func NewAudit(fam ipaddr.Family) *Audit {
	return &Audit{
		Family:   fam,
		Networks: NewNetworks(),
		Leases:   NewLeaseStore(),
	}
}

// EnsureFamily fixes the address family for the run.  Once fixed it
// cannot change; conflicting detections are an input error.
func (a *Audit) EnsureFamily(fam ipaddr.Family) error {
	if a.Family == nil {
		a.Family = fam
		return nil
	}
	if a.Family.Version() != fam.Version() {
		return fmt.Errorf("%w: input mixes IPv%d and IPv%d",
			model.ErrFamilyMismatch, a.Family.Version(), fam.Version())
	}
	return nil
}

// AddRange appends a configured range to the table.
func (a *Audit) AddRange(r *model.Range) {
	a.Ranges = append(a.Ranges, r)
}

// Prepare sorts the range table ascending by first address and builds
// the ordered lease view.  Must run before Count.
func (a *Audit) Prepare() {
	fam := a.Family
	if fam == nil {
		// Nothing parsed; counting over empty inputs is a no-op
		// either way, but the sorts need a comparator.
		fam = ipaddr.V4
		a.Family = fam
	}
	sort.Slice(a.Ranges, func(i, j int) bool {
		return fam.Compare(a.Ranges[i].First, a.Ranges[j].First) < 0
	})
	a.Leases.Prepare(fam)
}

// Count joins the sorted range table against the ordered lease view and
// fills in every range, shared-network, and root-aggregate counter.
//
// A single cursor into the lease sequence is shared across all ranges.
// Because ranges may overlap, the cursor rewinds before each range until
// it sits below the range's first address (or at the start); it then
// advances through the range classifying each lease.
func (a *Audit) Count() {
	fam := a.Family
	leases := a.Leases.Ordered()
	root := a.Networks.Root()
	cur := 0
	for _, r := range a.Ranges {
		if len(leases) > 0 {
			if cur >= len(leases) {
				// Previous range consumed the sequence; restart.
				cur = 0
			}
			for cur >= 0 && fam.Compare(r.First, leases[cur].IP) < 0 {
				cur-- // rewind
			}
			if cur < 0 {
				cur = 0
			}
			for ; cur < len(leases) && fam.Compare(leases[cur].IP, r.Last) <= 0; cur++ {
				if fam.Compare(leases[cur].IP, r.First) < 0 {
					continue // cannot happen?
				}
				switch leases[cur].State {
				case model.StateFree:
					r.Touched++
				case model.StateActive:
					r.Used++
				case model.StateBackup:
					r.Backups++
				}
			}
		}
		size := fam.RangeSize(r.First, r.Last)
		sn := r.SharedNet
		sn.Available += size
		sn.Used += r.Used
		sn.Touched += r.Touched
		sn.Backups += r.Backups
		// When the owning network is not 'All networks', add there too.
		if sn != root {
			root.Available += size
			root.Used += r.Used
			root.Touched += r.Touched
			root.Backups += r.Backups
		}
	}
}

// ActiveLeases returns the active lease records inside r, ascending by
// address.  Used by the lease-detail output formats.
func (a *Audit) ActiveLeases(r *model.Range) []*model.Lease {
	var out []*model.Lease
	for _, l := range a.Leases.Ordered() {
		if a.Family.Compare(l.IP, r.First) < 0 {
			continue
		}
		if a.Family.Compare(l.IP, r.Last) > 0 {
			break
		}
		if l.State == model.StateActive {
			out = append(out, l)
		}
	}
	return out
}
