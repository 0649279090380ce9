package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache implements Service on a file-local Badger database.
// Expiration uses Badger's native entry TTL.
type BadgerCache struct {
	db     *badger.DB
	prefix string
}

// NewBadgerCache opens (or creates) the database described by opts.
func NewBadgerCache(opts ...BadgerOption) (*BadgerCache, error) {
	cfg := &BadgerConfig{
		Dir:    "./data/cache",
		Prefix: "stockadvisor",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bopts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", cfg.Dir, err)
	}
	return &BadgerCache{db: db, prefix: cfg.Prefix}, nil
}

func (c *BadgerCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(c.wrapKey(key), value)
		if expiration > 0 {
			e = e.WithTTL(expiration)
		}
		return txn.SetEntry(e)
	})
}

func (c *BadgerCache) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.wrapKey(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BadgerCache) Delete(_ context.Context, keys ...string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(c.wrapKey(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByPattern scans the literal prefix of the pattern and glob-matches each key.
func (c *BadgerCache) DeleteByPattern(_ context.Context, pattern string) error {
	full := string(c.wrapKey(pattern))
	prefix := []byte(literalPrefix(full))

	var matched [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false, Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().KeyCopy(nil)
			if matchPattern(full, string(k)) {
				matched = append(matched, k)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return nil
	}

	wb := c.db.NewWriteBatch()
	for _, k := range matched {
		if err := wb.Delete(k); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func (c *BadgerCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	for _, key := range keys {
		_, err := c.Get(ctx, key)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			return false, err
		}
	}
	return false, nil
}

// Close closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func (c *BadgerCache) wrapKey(key string) []byte {
	return []byte(c.prefix + ":" + key)
}
