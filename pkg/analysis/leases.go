package analysis

import (
	"net/netip"
	"sort"

	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// LeaseStore indexes lease records by address.  Lease files legitimately
// contain repeated blocks for the same address; Add keeps only the most
// recent record (last-write-wins) and never errors on duplicates.
//
// The map is the keyed index; the ordered traversal consumed by the
// counting pass is a separate slice materialized by Prepare, never the
// map's internal structure.
type LeaseStore struct {
	byIP         map[netip.Addr]*model.Lease
	ordered      []*model.Lease
	backupsFound bool
}

// NewLeaseStore returns an empty store.
func NewLeaseStore() *LeaseStore {
	return &LeaseStore{byIP: make(map[netip.Addr]*model.Lease)}
}

// Add inserts or replaces the record for ip.
func (s *LeaseStore) Add(ip netip.Addr, state model.LeaseState, ethernet string) {
	if l, ok := s.byIP[ip]; ok {
		l.State = state
		l.Ethernet = ethernet
	} else {
		s.byIP[ip] = &model.Lease{IP: ip, State: state, Ethernet: ethernet}
	}
	if state == model.StateBackup {
		s.backupsFound = true
	}
}

// Find returns the record for ip, if any.
func (s *LeaseStore) Find(ip netip.Addr) (*model.Lease, bool) {
	l, ok := s.byIP[ip]
	return l, ok
}

// Delete removes the record for ip.
func (s *LeaseStore) Delete(ip netip.Addr) {
	delete(s.byIP, ip)
}

// DeleteAll releases every record.
func (s *LeaseStore) DeleteAll() {
	s.byIP = make(map[netip.Addr]*model.Lease)
	s.ordered = nil
}

// Len returns the number of live records.
func (s *LeaseStore) Len() int {
	return len(s.byIP)
}

// Prepare materializes the ascending-by-address traversal view.  Keyed
// lookups stay O(1); only the view is ordered.
func (s *LeaseStore) Prepare(fam ipaddr.Family) {
	s.ordered = make([]*model.Lease, 0, len(s.byIP))
	for _, l := range s.byIP {
		s.ordered = append(s.ordered, l)
	}
	sort.Slice(s.ordered, func(i, j int) bool {
		return fam.Compare(s.ordered[i].IP, s.ordered[j].IP) < 0
	})
}

// Ordered returns the view built by Prepare.
func (s *LeaseStore) Ordered() []*model.Lease {
	return s.ordered
}

// BackupsFound reports whether any lease in backup state was added.
// Renderers use it to decide whether backup columns appear at all.
func (s *LeaseStore) BackupsFound() bool {
	return s.backupsFound
}
