package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
	"github.com/YoshitsuguKoike/pulse/internal/domain/repository"
)

// DefaultStaleInterval is the staleness threshold used when none is configured
const DefaultStaleInterval = 10 * time.Second

// maxConcurrentModules bounds parallel record I/O during one check
const maxConcurrentModules = 8

// HealthcheckService turns persisted heartbeat records into a health verdict.
// It is the only writer of observation records.
type HealthcheckService struct {
	store  repository.RecordStore
	now    func() time.Time
	logger app.Logger
}

// NewHealthcheckService creates a healthcheck service over store
func NewHealthcheckService(store repository.RecordStore, logger app.Logger) *HealthcheckService {
	if logger == nil {
		logger = app.GetLogger()
	}
	return &HealthcheckService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// SetClock replaces the checker clock
func (s *HealthcheckService) SetClock(now func() time.Time) {
	s.now = now
}

// Healthcheck returns 0 when every tracked module is healthy and 1 otherwise.
// Store failures are returned as errors and never mapped to a verdict.
func (s *HealthcheckService) Healthcheck(ctx context.Context, staleInterval time.Duration) (int, error) {
	report, err := s.Check(ctx, staleInterval)
	if err != nil {
		return 1, err
	}
	return report.ExitCode(), nil
}

type moduleFiles struct {
	heartbeat   bool
	observation bool
}

// Check evaluates every module that has a heartbeat or observation record.
//
// A module seen for the first time is healthy. A module whose token changed
// since the last check is healthy. A module with an unchanged token is healthy
// only while its observation is younger than staleInterval. Observations whose
// heartbeat is gone are deleted and do not count.
func (s *HealthcheckService) Check(ctx context.Context, staleInterval time.Duration) (*heartbeat.Report, error) {
	if err := heartbeat.ValidateInterval(staleInterval); err != nil {
		return nil, fmt.Errorf("stale interval: %w", err)
	}

	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	modules := make(map[heartbeat.ModuleKey]*moduleFiles)
	for _, key := range keys {
		mk, role, ok := heartbeat.ParseKey(key)
		if !ok {
			continue
		}
		files := modules[mk]
		if files == nil {
			files = &moduleFiles{}
			modules[mk] = files
		}
		switch role {
		case heartbeat.RoleHeartbeat:
			files.heartbeat = true
		case heartbeat.RoleObservation:
			files.observation = true
		}
	}

	ordered := make([]heartbeat.ModuleKey, 0, len(modules))
	for mk := range modules {
		ordered = append(ordered, mk)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	now := s.now()
	verdicts := make([]*heartbeat.Verdict, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentModules)
	for i, mk := range ordered {
		files := modules[mk]
		g.Go(func() error {
			v, err := s.checkModule(gctx, mk, files, now, staleInterval)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &heartbeat.Report{CheckedAt: now, Modules: []heartbeat.Verdict{}}
	for i, v := range verdicts {
		if v == nil {
			report.Removed = append(report.Removed, ordered[i])
			continue
		}
		if !v.Healthy {
			s.logger.Warn("module %s is stale: token unchanged for %s (limit %s)", v.Key, v.Age, staleInterval)
		}
		report.Modules = append(report.Modules, *v)
	}
	return report, nil
}

// checkModule returns nil when the module is no longer tracked
func (s *HealthcheckService) checkModule(ctx context.Context, mk heartbeat.ModuleKey, files *moduleFiles, now time.Time, staleInterval time.Duration) (*heartbeat.Verdict, error) {
	if !files.heartbeat {
		return nil, s.removeOrphan(ctx, mk)
	}

	var rec heartbeat.Record
	if err := s.store.Read(ctx, mk.HeartbeatKey(), &rec); err != nil {
		if errors.Is(err, heartbeat.ErrRecordNotFound) {
			// stopped between List and Read
			return nil, s.removeOrphan(ctx, mk)
		}
		return nil, err
	}

	var obs heartbeat.Observation
	if files.observation {
		if err := s.store.Read(ctx, mk.ObservationKey(), &obs); err != nil {
			if !errors.Is(err, heartbeat.ErrRecordNotFound) {
				return nil, err
			}
			files.observation = false
		}
	}

	if !files.observation {
		if err := s.observe(ctx, mk, rec.Token, now); err != nil {
			return nil, err
		}
		return &heartbeat.Verdict{Key: mk, Healthy: true, Reason: heartbeat.ReasonFirstObservation}, nil
	}

	if rec.Token != obs.LastSeenToken {
		if err := s.observe(ctx, mk, rec.Token, now); err != nil {
			return nil, err
		}
		return &heartbeat.Verdict{Key: mk, Healthy: true, Reason: heartbeat.ReasonProgressed}, nil
	}

	age := obs.Age(now)
	if age < staleInterval {
		return &heartbeat.Verdict{Key: mk, Healthy: true, Reason: heartbeat.ReasonFresh, Age: age}, nil
	}
	return &heartbeat.Verdict{Key: mk, Healthy: false, Reason: heartbeat.ReasonStale, Age: age}, nil
}

func (s *HealthcheckService) observe(ctx context.Context, mk heartbeat.ModuleKey, token string, now time.Time) error {
	return s.store.Write(ctx, mk.ObservationKey(), heartbeat.NewObservation(token, now))
}

func (s *HealthcheckService) removeOrphan(ctx context.Context, mk heartbeat.ModuleKey) error {
	if err := s.store.Delete(ctx, mk.ObservationKey()); err != nil {
		return err
	}
	s.logger.Info("module %s: heartbeat gone, removed observation", mk)
	return nil
}
