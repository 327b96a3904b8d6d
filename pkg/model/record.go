package model

import (
	"net/netip"
	"time"
)

// PoolRecord is the stored form of one counted range in the pool
// database.  It carries the counters frozen at collection time together
// with the owning shared-network name.
type PoolRecord struct {
	First       netip.Addr
	Last        netip.Addr
	SharedNet   string
	Size        float64
	Used        int64
	Touched     int64
	Backups     int64
	Netmask     int
	CollectedAt time.Time
	Schema      int
}

// PoolStats summarizes a pool database.
type PoolStats struct {
	SchemaVersion   int
	CollectedAt     time.Time
	AnalyzerVersion string
	IPv4Pools       int64
	IPv6Pools       int64
	TotalPools      int64
	PoolsByNetwork  map[string]int64
	TotalAddresses  float64
	TotalUsed       int64
}
