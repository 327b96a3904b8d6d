package pooldb

import (
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vmihailenco/msgpack/v5"

	"poolstat/pkg/model"
)

// DB wraps a LevelDB instance holding exported pool records.
type DB struct {
	db     *leveldb.DB
	mu     sync.RWMutex
	path   string
	closed bool
}

// Open opens or creates a pool database at the specified path.
func Open(path string) (*DB, error) {
	opts := &opt.Options{
		// Snappy keeps the record values small
		Compression: opt.SnappyCompression,
		// Larger write buffer for the single-batch export
		WriteBuffer: 64 * 1024 * 1024, // 64MB
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return model.ErrDatabaseClosed
	}

	d.closed = true
	return d.db.Close()
}

// IsClosed returns true if the database is closed.
func (d *DB) IsClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Path returns the database path.
func (d *DB) Path() string {
	return d.path
}

// Get retrieves a value by key.
func (d *DB) Get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, model.ErrDatabaseClosed
	}

	value, err := d.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}
	return value, nil
}

// Put stores a key-value pair.
func (d *DB) Put(key, value []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return model.ErrDatabaseClosed
	}

	return d.db.Put(key, value, nil)
}

// Delete removes a key-value pair.
func (d *DB) Delete(key []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return model.ErrDatabaseClosed
	}

	return d.db.Delete(key, nil)
}

// NewIterator creates a new iterator.
func (d *DB) NewIterator(slice *util.Range) iterator.Iterator {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.db.NewIterator(slice, nil)
}

// WriteBatch writes multiple key-value pairs atomically.
func (d *DB) WriteBatch(ops []BatchOp) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return model.ErrDatabaseClosed
	}

	batch := new(leveldb.Batch)
	for _, op := range ops {
		if op.Delete {
			batch.Delete(op.Key)
		} else {
			batch.Put(op.Key, op.Value)
		}
	}

	return d.db.Write(batch, nil)
}

// BatchOp represents a batch operation.
type BatchOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// CompactDB forces compaction of the database.
func (d *DB) CompactDB() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return model.ErrDatabaseClosed
	}

	return d.db.CompactRange(util.Range{Start: nil, Limit: nil})
}

// encodeRecord serializes a PoolRecord to msgpack.
func encodeRecord(rec *model.PoolRecord) ([]byte, error) {
	data := struct {
		LastBytes   []byte
		SharedNet   string
		Size        float64
		Used        int64
		Touched     int64
		Backups     int64
		Netmask     int
		CollectedAt int64 // Unix timestamp
		Schema      int
	}{
		LastBytes:   IPToBytes(rec.Last),
		SharedNet:   rec.SharedNet,
		Size:        rec.Size,
		Used:        rec.Used,
		Touched:     rec.Touched,
		Backups:     rec.Backups,
		Netmask:     rec.Netmask,
		CollectedAt: rec.CollectedAt.Unix(),
		Schema:      rec.Schema,
	}

	return msgpack.Marshal(data)
}

// decodeRecord deserializes a PoolRecord from msgpack.
func decodeRecord(firstIP []byte, data []byte) (*model.PoolRecord, error) {
	var stored struct {
		LastBytes   []byte
		SharedNet   string
		Size        float64
		Used        int64
		Touched     int64
		Backups     int64
		Netmask     int
		CollectedAt int64
		Schema      int
	}

	if err := msgpack.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	first, err := BytesToIP(firstIP)
	if err != nil {
		return nil, fmt.Errorf("invalid first IP: %w", err)
	}

	last, err := BytesToIP(stored.LastBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid last IP: %w", err)
	}

	return &model.PoolRecord{
		First:       first,
		Last:        last,
		SharedNet:   stored.SharedNet,
		Size:        stored.Size,
		Used:        stored.Used,
		Touched:     stored.Touched,
		Backups:     stored.Backups,
		Netmask:     stored.Netmask,
		CollectedAt: time.Unix(stored.CollectedAt, 0),
		Schema:      stored.Schema,
	}, nil
}
