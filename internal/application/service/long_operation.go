package service

import (
	"context"
	"time"
)

// DefaultCadence paces SignalWhile and Sleep when the emitter has no debounce
// interval.
const DefaultCadence = time.Second

func (e *Emitter) cadence() time.Duration {
	if d := e.Interval(); d > 0 {
		return d
	}
	return DefaultCadence
}

type opResult[T any] struct {
	value T
	err   error
}

// SignalWhile runs op and keeps the emitter's module alive until op returns.
//
// A heartbeat is issued immediately and then once per debounce interval. When
// timeout is positive, heartbeats stop after it elapses while op keeps running
// to completion, so a stuck operation still becomes visible as stale. Canceling
// ctx stops heartbeats too; op receives the same ctx and decides itself whether
// to abort. Heartbeat failures are logged and never replace op's result.
func SignalWhile[T any](ctx context.Context, e *Emitter, op func(ctx context.Context) (T, error), timeout time.Duration) (T, error) {
	done := make(chan opResult[T], 1)
	go func() {
		v, err := op(ctx)
		done <- opResult[T]{value: v, err: err}
	}()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	e.signalLogged(ctx)

	for {
		wait := e.cadence()
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				break
			}
			if remaining < wait {
				wait = remaining
			}
		}

		timer := time.NewTimer(wait)
		select {
		case r := <-done:
			timer.Stop()
			return r.value, r.err
		case <-ctx.Done():
			timer.Stop()
			r := <-done
			return r.value, r.err
		case <-timer.C:
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				e.logger.Debug("heartbeat %s: signal timeout %s elapsed, waiting without heartbeats", e.name, timeout)
				r := <-done
				return r.value, r.err
			}
			e.signalLogged(ctx)
		}
	}

	r := <-done
	return r.value, r.err
}

// SignalWhile is the untyped form of the package-level SignalWhile
func (e *Emitter) SignalWhile(ctx context.Context, op func(ctx context.Context) error, timeout time.Duration) error {
	_, err := SignalWhile(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, timeout)
	return err
}

func (e *Emitter) signalLogged(ctx context.Context) {
	if err := e.Signal(ctx); err != nil && ctx.Err() == nil {
		e.logger.Warn("heartbeat %s: signal during long operation failed: %v", e.name, err)
	}
}

// Sleep waits for d while signaling before and after every chunk of waiting.
// Chunks are never longer than the debounce interval. Heartbeat failures and
// ctx cancellation end the sleep early with the error.
func (e *Emitter) Sleep(ctx context.Context, d time.Duration) error {
	if err := e.Signal(ctx); err != nil {
		return err
	}

	for remaining := d; remaining > 0; {
		chunk := e.cadence()
		if remaining < chunk {
			chunk = remaining
		}

		timer := time.NewTimer(chunk)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		remaining -= chunk

		if err := e.Signal(ctx); err != nil {
			return err
		}
	}
	return nil
}
