// Package file persists snapshots as one JSON file per component inside a
// data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"catalogcore/internal/infra/persistence/codec"
	"catalogcore/pkg/domain"
)

var _ domain.Gateway = (*Store)(nil)

const defaultDir = "./data"

// Store writes products.json, inventory.json, recommendations.json and
// supply_chain.json under dir. Every file is replaced by rename so a crash
// mid-save leaves each file either old or new, never truncated.
type Store struct {
	dir string
}

// NewStore returns a file store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Save writes every bucket to a temporary file, syncs them, then renames
// them into place.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	buckets, err := codec.Encode(snapshot)
	if err != nil {
		return domain.StorageFailure("file.save", err)
	}
	temps := make([]string, 0, len(buckets))
	defer func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}()
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return domain.StorageFailure("file.save", err)
		}
		tmp, err := writeTemp(s.dir, b.Payload)
		if err != nil {
			return domain.StorageFailure("file.save", fmt.Errorf("write %s: %w", b.Name, err))
		}
		temps = append(temps, tmp)
	}
	for i, b := range buckets {
		if err := os.Rename(temps[i], s.path(b.Name)); err != nil {
			return domain.StorageFailure("file.save", fmt.Errorf("replace %s: %w", b.Name, err))
		}
	}
	temps = nil
	syncDir(s.dir)
	return nil
}

// Load reads every bucket file that exists. No files at all is an empty
// snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	payloads := make(map[string][]byte, len(codec.Buckets))
	for _, name := range codec.Buckets {
		if err := ctx.Err(); err != nil {
			return domain.Snapshot{}, domain.StorageFailure("file.load", err)
		}
		data, err := os.ReadFile(s.path(name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Snapshot{}, domain.StorageFailure("file.load", fmt.Errorf("read %s: %w", name, err))
		}
		payloads[name] = data
	}
	return codec.Decode(payloads)
}

// Close is a no-op; files are closed after every write.
func (s *Store) Close() error { return nil }

func (s *Store) path(bucket string) string {
	return filepath.Join(s.dir, codec.FileName(bucket))
}

func writeTemp(dir string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// syncDir flushes the directory entry so renames survive a crash. Not all
// platforms support syncing directories; failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
