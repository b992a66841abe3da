// Package blobstate persists catalog snapshots as JSON objects in a blob
// store (filesystem, S3 or memory), one object per component bucket.
package blobstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"catalogcore/internal/blob"
	"catalogcore/internal/infra/persistence/codec"
	"catalogcore/pkg/domain"
)

var _ domain.Gateway = (*Store)(nil)

const (
	defaultPrefix = "catalogcore"
	contentType   = "application/json"
)

// Store writes `<prefix>/<bucket>.json` objects. Each object is replaced
// whole by the blob backend.
type Store struct {
	blobs  blob.Store
	prefix string
}

// NewStore wraps blobs. An empty prefix defaults to "catalogcore".
func NewStore(blobs blob.Store, prefix string) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("blob store required")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{blobs: blobs, prefix: prefix}, nil
}

// Prefix returns the key prefix objects are written under.
func (s *Store) Prefix() string { return s.prefix }

// Driver reports the underlying blob driver.
func (s *Store) Driver() blob.Driver { return s.blobs.Driver() }

// Save puts every bucket object.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	buckets, err := codec.Encode(snapshot)
	if err != nil {
		return domain.StorageFailure("blob.save", err)
	}
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return domain.StorageFailure("blob.save", err)
		}
		_, err := s.blobs.Put(ctx, s.key(b.Name), bytes.NewReader(b.Payload), blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"bucket": b.Name},
		})
		if err != nil {
			return domain.StorageFailure("blob.save", fmt.Errorf("put %s: %w", b.Name, err))
		}
	}
	return nil
}

// Load lists the prefix and fetches every known bucket object present.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	infos, err := s.blobs.List(ctx, s.prefix+"/")
	if err != nil {
		return domain.Snapshot{}, domain.StorageFailure("blob.load", fmt.Errorf("list %s: %w", s.prefix, err))
	}
	present := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		present[info.Key] = struct{}{}
	}
	payloads := make(map[string][]byte, len(codec.Buckets))
	for _, name := range codec.Buckets {
		key := s.key(name)
		if _, ok := present[key]; !ok {
			continue
		}
		data, err := s.read(ctx, key)
		if errors.Is(err, blob.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.Snapshot{}, domain.StorageFailure("blob.load", fmt.Errorf("get %s: %w", name, err))
		}
		payloads[name] = data
	}
	return codec.Decode(payloads)
}

// Close is a no-op; blob backends hold no per-gateway resources.
func (s *Store) Close() error { return nil }

func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func (s *Store) key(bucket string) string {
	return path.Join(s.prefix, codec.FileName(bucket))
}
