package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/YoshitsuguKoike/pulse/internal/application/service"
)

// HeartbeatReader signals once per chunk read from the wrapped reader
type HeartbeatReader struct {
	ctx    context.Context
	r      io.Reader
	signal service.Signaler
}

// NewHeartbeatReader wraps r so every Read proves liveness through s
func NewHeartbeatReader(ctx context.Context, r io.Reader, s service.Signaler) *HeartbeatReader {
	return &HeartbeatReader{ctx: ctx, r: r, signal: s}
}

func (h *HeartbeatReader) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	if n > 0 {
		if serr := h.signal.Signal(h.ctx); serr != nil {
			return n, fmt.Errorf("heartbeat: %w", serr)
		}
	}
	return n, err
}

// HeartbeatWriter signals once per chunk written to the wrapped writer
type HeartbeatWriter struct {
	ctx    context.Context
	w      io.Writer
	signal service.Signaler
}

// NewHeartbeatWriter wraps w so every Write proves liveness through s
func NewHeartbeatWriter(ctx context.Context, w io.Writer, s service.Signaler) *HeartbeatWriter {
	return &HeartbeatWriter{ctx: ctx, w: w, signal: s}
}

func (h *HeartbeatWriter) Write(p []byte) (int, error) {
	if err := h.signal.Signal(h.ctx); err != nil {
		return 0, fmt.Errorf("heartbeat: %w", err)
	}
	return h.w.Write(p)
}
