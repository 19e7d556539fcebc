package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerCache stores entries in an embedded Badger database. With an empty
// directory it runs fully in memory, which suits tests and one-off batch
// runs that still want deduplication.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens (or creates) a Badger database in dir. An empty dir
// selects in-memory mode.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db}, nil
}

// Get retrieves a value from the database.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. Badger drops the entry itself once ttl has passed.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a value.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Clear drops every entry. Badger does not report how many were removed.
func (c *BadgerCache) Clear(ctx context.Context) (int, error) {
	if err := c.db.DropAll(); err != nil {
		return 0, err
	}
	return -1, nil
}

// Close flushes and closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

var (
	_ Cache   = (*BadgerCache)(nil)
	_ Clearer = (*BadgerCache)(nil)
)
