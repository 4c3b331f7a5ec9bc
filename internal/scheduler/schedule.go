package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrScheduleRunning = errors.New("schedule already running")
	ErrScheduleStopped = errors.New("schedule stopped")
)

type scheduleState int

const (
	stateIdle scheduleState = iota
	stateRunning
	stateStopped
)

// Schedule drives a set of aggregators on one cadence. It is owned by
// whoever activates it: Start begins the loops, Stop ends them for good.
// Each group runs in its own loop so a slow group never holds back
// another group's publish. Passes of one group never overlap: ticks that
// elapse while a pass is in flight are skipped.
type Schedule struct {
	logger   *zap.Logger
	interval time.Duration
	aggs     []*Aggregator
	triggers []chan struct{}

	mu     sync.Mutex
	state  scheduleState
	cancel context.CancelFunc
	group  *errgroup.Group
}

func NewSchedule(logger *zap.Logger, interval time.Duration, aggs ...*Aggregator) *Schedule {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	triggers := make([]chan struct{}, len(aggs))
	for i := range triggers {
		triggers[i] = make(chan struct{}, 1)
	}
	return &Schedule{
		logger:   logger,
		interval: interval,
		aggs:     aggs,
		triggers: triggers,
	}
}

// Start runs one pass for every group immediately and then one per tick,
// until Stop is called or ctx is done.
func (s *Schedule) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateRunning:
		return ErrScheduleRunning
	case stateStopped:
		return ErrScheduleStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range s.aggs {
		a, trigger := a, s.triggers[i]
		g.Go(func() error {
			s.loop(gctx, a, trigger)
			return nil
		})
	}
	s.cancel = cancel
	s.group = g
	s.state = stateRunning
	s.logger.Info("schedule_started", zap.Duration("interval", s.interval), zap.Int("groups", len(s.aggs)))
	return nil
}

// Stop cancels the schedule and in-flight probes and waits for every loop
// to exit. Nothing is published once Stop has returned. Safe to call more
// than once, and before Start.
func (s *Schedule) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateRunning {
		s.cancel()
		_ = s.group.Wait()
		s.logger.Info("schedule_stopped")
	}
	s.state = stateStopped
}

// TriggerNow asks every group for an out-of-band pass. Requests made while
// a pass is running coalesce into a single follow-up pass.
func (s *Schedule) TriggerNow() {
	for _, t := range s.triggers {
		select {
		case t <- struct{}{}:
		default:
		}
	}
}

func (s *Schedule) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func (s *Schedule) loop(ctx context.Context, a *Aggregator, trigger chan struct{}) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	// immediate pass
	s.pass(ctx, a, t)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.pass(ctx, a, t)
		case <-trigger:
			s.pass(ctx, a, t)
		}
	}
}

func (s *Schedule) pass(ctx context.Context, a *Aggregator, t *time.Ticker) {
	a.RunPass(ctx)

	// skip-if-running: a tick that fired during the pass is dropped
	select {
	case <-t.C:
		a.Logger.Warn("pass_overran_interval", zap.Duration("interval", s.interval))
	default:
	}
}
