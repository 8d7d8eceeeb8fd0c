package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	bolt "go.etcd.io/bbolt"
)

const catalogsBktName = "catalogs"

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "catalogs.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{catalogsBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Put puts catalog payload to storage.
func (b *Bolt) Put(_ context.Context, p Payload) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(catalogsBktName))

		bts, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		if err := bkt.Put([]byte(p.URL), bts); err != nil {
			return fmt.Errorf("put payload to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// Get returns catalog payload from storage.
func (b *Bolt) Get(_ context.Context, url string) (p Payload, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(catalogsBktName))

		bts := bkt.Get([]byte(url))
		if bts == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bts, &p); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}

		return nil
	})
	if err != nil {
		return Payload{}, fmt.Errorf("view storage: %w", err)
	}

	return p, nil
}

// Delete removes catalog payload from storage.
func (b *Bolt) Delete(_ context.Context, url string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(catalogsBktName))

		if err := bkt.Delete([]byte(url)); err != nil {
			return fmt.Errorf("remove: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }
