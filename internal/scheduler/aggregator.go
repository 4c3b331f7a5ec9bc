package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/labdash/internal/domain"
	"github.com/hamed0406/labdash/internal/probe"
	"github.com/hamed0406/labdash/internal/repo"
)

// Aggregator probes one group of targets and publishes the group's map.
type Aggregator struct {
	Logger  *zap.Logger
	Group   domain.Group
	Targets []domain.Target
	Checker probe.Checker
	Store   repo.StatusStore
	Timeout time.Duration
}

func NewAggregator(
	logger *zap.Logger,
	group domain.Group,
	targets []domain.Target,
	checker probe.Checker,
	store repo.StatusStore,
	timeout time.Duration,
) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	return &Aggregator{
		Logger:  logger.With(zap.String("group", string(group))),
		Group:   group,
		Targets: targets,
		Checker: checker,
		Store:   store,
		Timeout: timeout,
	}
}

// RunPass probes every target concurrently, waits for all of them and
// publishes one fresh map. It reports false when ctx ended before the
// barrier, in which case nothing is published.
func (a *Aggregator) RunPass(ctx context.Context) (domain.StatusMap, bool) {
	passID := uuid.NewString()
	started := time.Now()

	up := make([]bool, len(a.Targets))
	var wg sync.WaitGroup
	for i, tgt := range a.Targets {
		wg.Add(1)
		go func(i int, t domain.Target) {
			defer wg.Done()
			up[i] = a.check(ctx, passID, t)
		}(i, tgt)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		a.Logger.Info("pass_discarded", zap.String("pass_id", passID), zap.Error(err))
		return nil, false
	}

	m := make(domain.StatusMap, len(a.Targets))
	online := 0
	for i, t := range a.Targets {
		m[t.ID] = up[i]
		if up[i] {
			online++
		}
	}

	if err := a.Store.Publish(ctx, a.Group, m, time.Now().UTC()); err != nil {
		a.Logger.Warn("pass_publish_error", zap.String("pass_id", passID), zap.Error(err))
		return nil, false
	}

	a.Logger.Info("pass_completed",
		zap.String("pass_id", passID),
		zap.Int("targets", len(a.Targets)),
		zap.Int("online", online),
		zap.Int("offline", len(a.Targets)-online),
		zap.Duration("took", time.Since(started)),
	)
	return m, true
}

// check never lets a misbehaving checker break the pass.
func (a *Aggregator) check(ctx context.Context, passID string, t domain.Target) (up bool) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("probe_panic",
				zap.String("pass_id", passID),
				zap.String("target_id", string(t.ID)),
				zap.Any("panic", r),
			)
			up = false
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	out := a.Checker.Check(cctx, t.URL)
	if out.Reachable {
		a.Logger.Debug("probe_ok",
			zap.String("pass_id", passID),
			zap.String("target_id", string(t.ID)),
			zap.String("url", t.URL),
			zap.Int("status", out.StatusCode),
			zap.Float64("latency_ms", out.LatencyMS),
		)
	} else {
		a.Logger.Debug("probe_failed",
			zap.String("pass_id", passID),
			zap.String("target_id", string(t.ID)),
			zap.String("url", t.URL),
			zap.String("reason", out.Reason),
			zap.Float64("latency_ms", out.LatencyMS),
		)
	}
	return out.Reachable
}
