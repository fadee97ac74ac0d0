package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
	"github.com/YoshitsuguKoike/pulse/internal/domain/repository"
	"github.com/YoshitsuguKoike/pulse/internal/infra/persistence/file"
)

// FileRecordStore implements repository.RecordStore with one JSON file per key
type FileRecordStore struct {
	fs  afero.Fs
	dir string
}

var _ repository.RecordStore = (*FileRecordStore)(nil)

// NewFileRecordStore creates a record store rooted at dir
func NewFileRecordStore(fsys afero.Fs, dir string) *FileRecordStore {
	return &FileRecordStore{fs: fsys, dir: dir}
}

func (s *FileRecordStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Write atomically replaces the record under key
func (s *FileRecordStore) Write(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return &heartbeat.StoreError{Op: "encode", Key: key, Err: err}
	}
	if err := file.WriteFileAtomic(s.fs, s.path(key), data); err != nil {
		return &heartbeat.StoreError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Read decodes the record under key into v
func (s *FileRecordStore) Read(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return heartbeat.ErrRecordNotFound
		}
		return &heartbeat.StoreError{Op: "read", Key: key, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &heartbeat.StoreError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

// Delete removes the record under key if present
func (s *FileRecordStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &heartbeat.StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// List returns the record keys in the data directory, sorted.
// A missing directory holds no records. Temp files of in-progress writes are skipped.
func (s *FileRecordStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &heartbeat.StoreError{Op: "list", Err: err}
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || file.IsTemp(entry.Name()) {
			continue
		}
		keys = append(keys, entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
