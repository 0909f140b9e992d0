// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/fleetcache/internal/cache"
)

// badgerKeyPrefix scopes cache entries inside a BadgerDB that may be shared
// with other data.
const badgerKeyPrefix = "cache:"

// BadgerBackend implements cache.Backend using BadgerDB.
type BadgerBackend struct {
	db     *badger.DB
	owned  bool
	prefix []byte
}

// OpenBadger opens a BadgerDB at path. With inMemory set the path is ignored
// and nothing touches disk.
func OpenBadger(path string, inMemory bool) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for cache: %w", err)
	}
	b := NewBadgerBackend(db)
	b.owned = true
	return b, nil
}

// NewBadgerBackend wraps an existing DB. Close does not close a DB the
// backend did not open.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db, prefix: []byte(badgerKeyPrefix)}
}

func (b *BadgerBackend) key(k string) []byte {
	return append(append([]byte{}, b.prefix...), k...)
}

// Name implements cache.Backend.
func (b *BadgerBackend) Name() string { return "badger" }

// Get implements cache.Backend.
func (b *BadgerBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cache entry: %w", err)
	}
	return value, true, nil
}

// Set implements cache.Backend.
func (b *BadgerBackend) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(b.key(key), []byte(value)); err != nil {
			return fmt.Errorf("set cache entry: %w", err)
		}
		return nil
	})
}

// Remove implements cache.Backend.
func (b *BadgerBackend) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(b.key(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete cache entry: %w", err)
		}
		return nil
	})
}

// Clear implements cache.Backend. Only keys under the cache prefix are
// removed.
func (b *BadgerBackend) Clear(ctx context.Context) error {
	keys, err := b.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("clear cache entries: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	return nil
}

// Len implements cache.Backend.
func (b *BadgerBackend) Len(ctx context.Context) (int, error) {
	keys, err := b.scan(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (b *BadgerBackend) scan(ctx context.Context) ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(b.prefix); it.ValidForPrefix(b.prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan cache entries: %w", err)
	}
	return keys, nil
}

// Close closes the underlying DB if the backend opened it.
func (b *BadgerBackend) Close() error {
	if b.owned && b.db != nil {
		return b.db.Close()
	}
	return nil
}

var _ cache.Backend = (*BadgerBackend)(nil)
