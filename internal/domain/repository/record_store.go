package repository

import "context"

// RecordStore persists small JSON records keyed by file name inside one directory.
// Each key has exactly one writer role, so no locking is provided.
type RecordStore interface {
	// Write atomically replaces the record stored under key with v.
	// A concurrent reader observes either the previous or the new content.
	Write(ctx context.Context, key string, v any) error

	// Read decodes the record stored under key into v.
	// Returns heartbeat.ErrRecordNotFound when no record exists for key.
	Read(ctx context.Context, key string, v any) error

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently present
	List(ctx context.Context) ([]string, error)
}
