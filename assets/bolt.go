package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket is the bucket asset bodies are stored in
const DefaultBucket = "assets"

// BoltBackend stores asset bodies in a BoltDB file, keyed by physical path
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltBackend opens (or creates) the database at path
func NewBoltBackend(path, bucket string) (*BoltBackend, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltBackend{db: db, bucket: []byte(bucket)}, nil
}

// Close closes the database
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// Put stores data under key, replacing any previous body
func (b *BoltBackend) Put(key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), data)
	})
}

// ImportFS copies every regular file in fsys into the store and returns
// how many were written
func (b *BoltBackend) ImportFS(fsys fs.FS) (int, error) {
	count := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(p), data); err != nil {
				return err
			}
			count++
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import assets: %w", err)
	}
	return count, nil
}

// Fetch returns the body stored under key
func (b *BoltBackend) Fetch(ctx context.Context, key string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// Bolt values are only valid for the life of the transaction
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: http.StatusOK,
		Header:     contentHeaders(key, len(data)),
		Body:       io.NopCloser(bytes.NewReader(data)),
	}, nil
}
