package pooldb

import (
	"fmt"
	"time"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

// Export writes the counted range table into a fresh pool database in
// one batch.  The analyzer only ever writes here; readers are the query
// tools.
func Export(path string, a *analysis.Audit, analyzerVersion string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	ops := make([]BatchOp, 0, len(a.Ranges))
	for _, r := range a.Ranges {
		rec := &model.PoolRecord{
			First:       r.First,
			Last:        r.Last,
			SharedNet:   r.SharedNet.Name,
			Size:        a.Family.RangeSize(r.First, r.Last),
			Used:        r.Used,
			Touched:     r.Touched,
			Backups:     r.Backups,
			Netmask:     r.SharedNet.Netmask,
			CollectedAt: now,
			Schema:      schemaVersion,
		}
		value, err := encodeRecord(rec)
		if err != nil {
			return fmt.Errorf("failed to encode pool %s: %w", a.Family.String(r.First), err)
		}
		ops = append(ops, BatchOp{Key: EncodePoolKey(r.First), Value: value})
	}

	if err := db.WriteBatch(ops); err != nil {
		return fmt.Errorf("failed to write pools: %w", err)
	}
	if err := db.InitializeMetadata(analyzerVersion, now); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := db.CompactDB(); err != nil {
		return fmt.Errorf("failed to compact database: %w", err)
	}
	return nil
}
