package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
	infraRepo "github.com/YoshitsuguKoike/pulse/internal/infrastructure/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDiskFull = errors.New("no space left on device")

// instrumentedStore wraps a memory-backed FileRecordStore and records heartbeat writes
type instrumentedStore struct {
	*infraRepo.FileRecordStore

	mu         sync.Mutex
	writes     int
	failWrites int
	readErr    error
	block      chan struct{}
	started    chan struct{}

	deleteBlock   chan struct{}
	deleteStarted chan struct{}
}

func newInstrumentedStore() *instrumentedStore {
	return &instrumentedStore{
		FileRecordStore: infraRepo.NewFileRecordStore(afero.NewMemMapFs(), "/data/healthcheck"),
		started:         make(chan struct{}, 64),
		deleteStarted:   make(chan struct{}, 64),
	}
}

func (s *instrumentedStore) Write(ctx context.Context, key string, v any) error {
	if _, role, _ := heartbeat.ParseKey(key); role == heartbeat.RoleHeartbeat {
		select {
		case s.started <- struct{}{}:
		default:
		}
		if s.block != nil {
			<-s.block
		}
		s.mu.Lock()
		s.writes++
		fail := s.failWrites > 0
		if fail {
			s.failWrites--
		}
		s.mu.Unlock()
		if fail {
			return &heartbeat.StoreError{Op: "write", Key: key, Err: errDiskFull}
		}
	}
	return s.FileRecordStore.Write(ctx, key, v)
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	if _, role, _ := heartbeat.ParseKey(key); role == heartbeat.RoleHeartbeat {
		select {
		case s.deleteStarted <- struct{}{}:
		default:
		}
		if s.deleteBlock != nil {
			<-s.deleteBlock
		}
	}
	return s.FileRecordStore.Delete(ctx, key)
}

func (s *instrumentedStore) Read(ctx context.Context, key string, v any) error {
	s.mu.Lock()
	readErr := s.readErr
	s.mu.Unlock()
	if readErr != nil {
		return &heartbeat.StoreError{Op: "read", Key: key, Err: readErr}
	}
	return s.FileRecordStore.Read(ctx, key, v)
}

func (s *instrumentedStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *instrumentedStore) hasRecord(t *testing.T, key string) bool {
	t.Helper()
	keys, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func mustModule(t *testing.T, name string) heartbeat.ModuleName {
	t.Helper()
	m, err := heartbeat.NewModuleName(name)
	if err != nil {
		t.Fatalf("NewModuleName(%q) error = %v", name, err)
	}
	return m
}

func newTestEmitter(t *testing.T, store *instrumentedStore, name string, interval time.Duration, opts ...EmitterOption) *Emitter {
	t.Helper()
	opts = append([]EmitterOption{WithLogger(app.NopLogger())}, opts...)
	e, err := NewEmitter(store, mustModule(t, name), interval, opts...)
	if err != nil {
		t.Fatalf("NewEmitter() error = %v", err)
	}
	return e
}
