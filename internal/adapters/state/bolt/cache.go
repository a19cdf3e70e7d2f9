// Package bolt caches resolved account bindings in a local BoltDB file. The
// cache is a fast path only; the remote user/role listings stay the source
// of truth.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/casthost/azuracast-provisioner/internal/domain"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

var bucketBindings = []byte("bindings")

type Cache struct {
	db *bbolt.DB
}

var _ ports.BindingCache = (*Cache)(nil)

// Open opens (or creates) the cache database at the given path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open binding cache %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBindings)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init binding bucket: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(ctx context.Context, id domain.AccountID) (domain.Binding, error) {
	if err := ctx.Err(); err != nil {
		return domain.Binding{}, err
	}

	var binding domain.Binding
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBindings).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &binding)
	})
	if err != nil {
		return domain.Binding{}, fmt.Errorf("read cached binding %q: %w", id, err)
	}
	if !found {
		return domain.Binding{}, domain.ErrBindingNotCached
	}
	return binding, nil
}

func (c *Cache) Put(ctx context.Context, id domain.AccountID, binding domain.Binding) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(binding)
	if err != nil {
		return fmt.Errorf("encode binding %q: %w", id, err)
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBindings).Put([]byte(id), data)
	})
	if err != nil {
		return fmt.Errorf("write cached binding %q: %w", id, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id domain.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBindings).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete cached binding %q: %w", id, err)
	}
	return nil
}
