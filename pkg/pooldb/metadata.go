package pooldb

import (
	"fmt"
	"log"
	"time"

	"github.com/syndtr/goleveldb/leveldb/util"

	"poolstat/pkg/model"
)

// Metadata keys
const (
	metaKeySchema          = "schema"
	metaKeyCollectedAt     = "collected_at"
	metaKeyAnalyzerVersion = "analyzer_version"
)

// schemaVersion is the current pool record layout version.
const schemaVersion = 1

// SetMetadata sets a metadata key-value pair.
func (d *DB) SetMetadata(key, value string) error {
	return d.Put(MetaKey(key), []byte(value))
}

// GetMetadata retrieves a metadata value.
func (d *DB) GetMetadata(key string) (string, error) {
	value, err := d.Get(MetaKey(key))
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return string(value), nil
}

// SetSchemaVersion sets the database schema version.
func (d *DB) SetSchemaVersion(version int) error {
	return d.SetMetadata(metaKeySchema, fmt.Sprintf("%d", version))
}

// GetSchemaVersion retrieves the database schema version.
func (d *DB) GetSchemaVersion() (int, error) {
	value, err := d.GetMetadata(metaKeySchema)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	var version int
	if _, err := fmt.Sscanf(value, "%d", &version); err != nil {
		return 0, fmt.Errorf("invalid schema version: %w", err)
	}
	return version, nil
}

// SetCollectedAt sets the collection timestamp.
func (d *DB) SetCollectedAt(t time.Time) error {
	return d.SetMetadata(metaKeyCollectedAt, t.Format(time.RFC3339))
}

// GetCollectedAt retrieves the collection timestamp.
func (d *DB) GetCollectedAt() (time.Time, error) {
	value, err := d.GetMetadata(metaKeyCollectedAt)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

// SetAnalyzerVersion sets the analyzer version that produced the data.
func (d *DB) SetAnalyzerVersion(version string) error {
	return d.SetMetadata(metaKeyAnalyzerVersion, version)
}

// GetAnalyzerVersion retrieves the analyzer version.
func (d *DB) GetAnalyzerVersion() (string, error) {
	return d.GetMetadata(metaKeyAnalyzerVersion)
}

// InitializeMetadata sets the metadata for a fresh export.
func (d *DB) InitializeMetadata(analyzerVersion string, collectedAt time.Time) error {
	if err := d.SetSchemaVersion(schemaVersion); err != nil {
		return err
	}
	if err := d.SetCollectedAt(collectedAt); err != nil {
		return err
	}
	if err := d.SetAnalyzerVersion(analyzerVersion); err != nil {
		return err
	}
	return nil
}

// IteratePools iterates over the pool records of one address family in
// key order.
func (d *DB) IteratePools(v4 bool, fn func(*model.PoolRecord) error) error {
	prefix := PrefixPoolV4
	if !v4 {
		prefix = PrefixPoolV6
	}

	slice := &util.Range{
		Start: []byte(prefix),
		Limit: []byte(prefix + "\xFF"),
	}

	iter := d.NewIterator(slice)
	defer iter.Release()

	for iter.Next() {
		first, err := DecodePoolKey(iter.Key())
		if err != nil {
			log.Printf("WARN: Failed to decode key: %v", err)
			continue
		}

		rec, err := decodeRecord(IPToBytes(first), iter.Value())
		if err != nil {
			log.Printf("WARN: Failed to decode record for %v: %v", first, err)
			continue
		}

		if err := fn(rec); err != nil {
			return err
		}
	}

	return iter.Error()
}

// CountPools counts the pool records per address family.
func (d *DB) CountPools() (ipv4, ipv6 int64, err error) {
	v4Slice := &util.Range{
		Start: []byte(PrefixPoolV4),
		Limit: []byte(PrefixPoolV4 + "\xFF"),
	}
	v4Iter := d.NewIterator(v4Slice)
	for v4Iter.Next() {
		ipv4++
	}
	v4Iter.Release()
	if err := v4Iter.Error(); err != nil {
		return 0, 0, err
	}

	v6Slice := &util.Range{
		Start: []byte(PrefixPoolV6),
		Limit: []byte(PrefixPoolV6 + "\xFF"),
	}
	v6Iter := d.NewIterator(v6Slice)
	for v6Iter.Next() {
		ipv6++
	}
	v6Iter.Release()
	if err := v6Iter.Error(); err != nil {
		return 0, 0, err
	}

	return ipv4, ipv6, nil
}

// Stats computes database statistics.
func (d *DB) Stats() (*model.PoolStats, error) {
	stats := &model.PoolStats{
		PoolsByNetwork: make(map[string]int64),
	}

	version, err := d.GetSchemaVersion()
	if err != nil {
		log.Printf("WARN: Failed to get schema version: %v", err)
	}
	stats.SchemaVersion = version

	collectedAt, err := d.GetCollectedAt()
	if err != nil {
		log.Printf("WARN: Failed to get collected_at: %v", err)
	}
	stats.CollectedAt = collectedAt

	analyzerVersion, err := d.GetAnalyzerVersion()
	if err != nil {
		log.Printf("WARN: Failed to get analyzer version: %v", err)
	}
	stats.AnalyzerVersion = analyzerVersion

	ipv4, ipv6, err := d.CountPools()
	if err != nil {
		return nil, fmt.Errorf("failed to count pools: %w", err)
	}
	stats.IPv4Pools = ipv4
	stats.IPv6Pools = ipv6
	stats.TotalPools = ipv4 + ipv6

	collect := func(rec *model.PoolRecord) error {
		stats.PoolsByNetwork[rec.SharedNet]++
		stats.TotalAddresses += rec.Size
		stats.TotalUsed += rec.Used
		return nil
	}
	if err := d.IteratePools(true, collect); err != nil {
		return nil, fmt.Errorf("failed to iterate IPv4 pools: %w", err)
	}
	if err := d.IteratePools(false, collect); err != nil {
		return nil, fmt.Errorf("failed to iterate IPv6 pools: %w", err)
	}

	return stats, nil
}
