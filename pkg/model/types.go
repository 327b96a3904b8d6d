package model

import "net/netip"

// LeaseState classifies a lease record from dhcpd.leases.  The binding
// states free, abandoned, expired, and released all collapse into
// StateFree; such addresses were handed out at some point and count as
// touched during analysis.
type LeaseState int

const (
	StateActive LeaseState = iota
	StateFree
	StateBackup
)

// String returns the state name used in rendered output.
func (s LeaseState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFree:
		return "free"
	case StateBackup:
		return "backup"
	}
	return "unknown"
}

// Lease is a single lease record keyed by address.  At most one live
// record exists per address; later records for the same address replace
// earlier ones.
type Lease struct {
	IP       netip.Addr
	State    LeaseState
	Ethernet string // hardware address, optional
}

// SharedNetwork accumulates counters over the ranges that belong to it.
// The registry's first entry is the "All networks" aggregate, which
// collects totals from every range.
type SharedNetwork struct {
	Name      string
	Available float64 // sum of range sizes; float64 because IPv6 ranges can exceed uint64
	Used      int64
	Touched   int64
	Backups   int64
	Netmask   int
}

// Range is a configured allocatable address interval with its counters.
// First <= Last always holds.  Counters start at zero and are written
// only by the counting pass.
type Range struct {
	First     netip.Addr
	Last      netip.Addr
	SharedNet *SharedNetwork
	Used      int64
	Touched   int64
	Backups   int64
}
