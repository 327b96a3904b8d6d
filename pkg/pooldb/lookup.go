package pooldb

import (
	"fmt"
	"net/netip"

	"poolstat/pkg/model"
)

// GetByIP finds the pool record containing ip using the seek/prev
// algorithm: seek to the first key >= ip, step back when the found key
// starts past it, then verify containment against the record's last
// address.  Returns ErrNotFound when no pool covers the address.
func (d *DB) GetByIP(ip netip.Addr) (*model.PoolRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, model.ErrDatabaseClosed
	}

	if !ip.IsValid() {
		return nil, model.ErrInvalidIP
	}

	prefix := PrefixPoolV4
	if !ip.Is4() {
		prefix = PrefixPoolV6
	}

	searchKey := EncodePoolKey(ip)

	iter := d.db.NewIterator(nil, nil)
	defer iter.Release()

	if !iter.Seek(searchKey) {
		// No key >= searchKey; the last record may still cover ip.
		if !iter.Last() {
			return nil, model.ErrNotFound
		}
		key := iter.Key()
		if len(key) < len(prefix) || string(key[:len(prefix)]) != prefix {
			return nil, model.ErrNotFound
		}
	} else {
		key := iter.Key()
		if len(key) < len(prefix) || string(key[:len(prefix)]) != prefix {
			// Landed past this family's records; step back.
			if !iter.Prev() {
				return nil, model.ErrNotFound
			}
			key = iter.Key()
			if len(key) < len(prefix) || string(key[:len(prefix)]) != prefix {
				return nil, model.ErrNotFound
			}
		} else {
			first, err := DecodePoolKey(key)
			if err != nil {
				return nil, fmt.Errorf("invalid key: %w", err)
			}
			if first.Compare(ip) > 0 {
				// The found pool starts past ip; the previous one
				// may contain it.
				if !iter.Prev() {
					return nil, model.ErrNotFound
				}
				key = iter.Key()
				if len(key) < len(prefix) || string(key[:len(prefix)]) != prefix {
					return nil, model.ErrNotFound
				}
			}
			// first == ip or first < ip: stay on this record.
		}
	}

	key := iter.Key()
	value := iter.Value()

	first, err := DecodePoolKey(key)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}

	rec, err := decodeRecord(IPToBytes(first), value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	if IsInRange(ip, rec.First, rec.Last) {
		return rec, nil
	}

	return nil, model.ErrNotFound
}

// LookupString parses an IP string and performs the lookup.
func (d *DB) LookupString(ipStr string) (*model.PoolRecord, error) {
	ip, err := netip.ParseAddr(ipStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidIP, err)
	}
	return d.GetByIP(ip.Unmap())
}
