package service

import (
	"context"
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
	"github.com/YoshitsuguKoike/pulse/internal/domain/repository"
)

// Signaler is the single capability consumed by stream adapters
type Signaler interface {
	Signal(ctx context.Context) error
}

// EmitterOption configures an Emitter
type EmitterOption func(*Emitter)

// WithClock replaces the clock used for debouncing
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) { e.now = now }
}

// WithEntropy replaces the randomness used for heartbeat tokens
func WithEntropy(r io.Reader) EmitterOption {
	return func(e *Emitter) { e.entropy = r }
}

// WithLogger sets the emitter logger
func WithLogger(l app.Logger) EmitterOption {
	return func(e *Emitter) { e.logger = l }
}

// Emitter records liveness for one module.
//
// Signal debounces writes to at most one per interval and collapses concurrent
// calls into a single in-flight write. Two emitters built with the same module
// name share the same heartbeat record and are interchangeable.
type Emitter struct {
	name    heartbeat.ModuleName
	key     heartbeat.ModuleKey
	store   repository.RecordStore
	now     func() time.Time
	entropy io.Reader
	logger  app.Logger

	mu             sync.Mutex
	interval       time.Duration
	lastAcceptedAt time.Time

	// keyed by the heartbeat record key: one write or delete in flight per module
	flight singleflight.Group
}

var _ Signaler = (*Emitter)(nil)

// NewEmitter creates an emitter for the module. A zero interval means every
// Signal writes.
func NewEmitter(store repository.RecordStore, name heartbeat.ModuleName, interval time.Duration, opts ...EmitterOption) (*Emitter, error) {
	if err := heartbeat.ValidateInterval(interval); err != nil {
		return nil, err
	}

	e := &Emitter{
		name:     name,
		key:      name.Key(),
		store:    store,
		now:      time.Now,
		entropy:  rand.Reader,
		logger:   app.GetLogger(),
		interval: interval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Module returns the module name
func (e *Emitter) Module() heartbeat.ModuleName {
	return e.name
}

// Key returns the module key used in record file names
func (e *Emitter) Key() heartbeat.ModuleKey {
	return e.key
}

// Interval returns the current debounce window
func (e *Emitter) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

// SetInterval changes the debounce window. Negative values are rejected.
func (e *Emitter) SetInterval(d time.Duration) error {
	if err := heartbeat.ValidateInterval(d); err != nil {
		return err
	}
	e.mu.Lock()
	e.interval = d
	e.mu.Unlock()
	return nil
}

// SetIntervalMillis changes the debounce window from a millisecond count.
// NaN, infinite and negative values are rejected.
func (e *Emitter) SetIntervalMillis(ms float64) error {
	d, err := heartbeat.IntervalFromMillis(ms)
	if err != nil {
		return err
	}
	return e.SetInterval(d)
}

// Signal records fresh liveness evidence unless the debounce window is still open.
//
// When a write is already in flight the call waits for that write and returns
// its result instead of starting another one. A failed write does not advance
// the debounce clock, so the next call retries. Canceling ctx stops waiting
// but never aborts the write.
func (e *Emitter) Signal(ctx context.Context) error {
	e.mu.Lock()
	if !e.shouldWriteLocked(e.now()) {
		e.mu.Unlock()
		return nil
	}
	ch := e.flight.DoChan(e.key.HeartbeatKey(), e.write)
	e.mu.Unlock()

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Emitter) shouldWriteLocked(now time.Time) bool {
	return e.interval == 0 || e.lastAcceptedAt.IsZero() || now.Sub(e.lastAcceptedAt) >= e.interval
}

func (e *Emitter) write() (any, error) {
	startedAt := e.now()

	token, err := ulid.New(ulid.Timestamp(startedAt), e.entropy)
	if err != nil {
		return nil, err
	}

	// The write outlives any single caller; callers only stop waiting.
	if err := e.store.Write(context.Background(), e.key.HeartbeatKey(), heartbeat.Record{Token: token.String()}); err != nil {
		e.logger.Warn("heartbeat %s: write failed: %v", e.name, err)
		return nil, err
	}

	e.mu.Lock()
	e.lastAcceptedAt = startedAt
	e.mu.Unlock()

	e.logger.Debug("heartbeat %s: token %s", e.name, token)
	return nil, nil
}

// Stop deletes the module's heartbeat record so the healthcheck no longer
// tracks it. A later Signal writes immediately and recreates tracking.
func (e *Emitter) Stop(ctx context.Context) error {
	key := e.key.HeartbeatKey()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Do joins an in-flight write if there is one; loop until our delete ran.
		ran := false
		_, err, _ := e.flight.Do(key, func() (any, error) {
			ran = true
			return nil, e.store.Delete(ctx, key)
		})
		if !ran {
			continue
		}
		if err != nil {
			return err
		}

		e.mu.Lock()
		e.lastAcceptedAt = time.Time{}
		e.mu.Unlock()

		e.logger.Info("heartbeat %s: stopped", e.name)
		return nil
	}
}
