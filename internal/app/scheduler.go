package app

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cards/external/jobqueue"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

type jobSchedulerConfig struct {
	Interval   time.Duration
	ScoreDelay time.Duration
	TrendDelay time.Duration
}

// jobScheduler watches the week calendar and enqueues scoring and trend
// recompute jobs once a week completes. The QStash deduplication id keeps
// the enqueue idempotent across restarts; the local set only saves the
// publish round-trip within one process.
type jobScheduler struct {
	publisher *jobqueue.QStashPublisher
	weekRepo  week.Repository
	cfg       jobSchedulerConfig
	logger    *logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	enqueued map[string]struct{}
}

func newJobScheduler(
	publisher *jobqueue.QStashPublisher,
	weekRepo week.Repository,
	cfg jobSchedulerConfig,
	logger *logging.Logger,
) *jobScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &jobScheduler{
		publisher: publisher,
		weekRepo:  weekRepo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		enqueued:  make(map[string]struct{}),
	}
}

func (s *jobScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *jobScheduler) tick(ctx context.Context) {
	now := s.now().UTC()
	weeks, err := s.weekRepo.ListBySeason(ctx, now.Year())
	if err != nil {
		s.logger.WarnContext(ctx, "job scheduler: list weeks failed", "error", err)
		return
	}

	for _, w := range weeks {
		if w.StatusAt(now) != week.StatusCompleted {
			continue
		}
		if s.alreadyEnqueued(w.ID) {
			continue
		}
		if err := s.publisher.EnqueueScoreWeek(ctx, w.ID, s.cfg.ScoreDelay); err != nil {
			s.logger.WarnContext(ctx, "job scheduler: enqueue score week failed", "week_id", w.ID, "error", err)
			continue
		}
		if err := s.publisher.EnqueueRecomputeTrends(ctx, w.Season, w.ID, s.cfg.TrendDelay); err != nil {
			s.logger.WarnContext(ctx, "job scheduler: enqueue recompute trends failed", "week_id", w.ID, "error", err)
			continue
		}
		s.markEnqueued(w.ID)
		s.logger.InfoContext(ctx, "job scheduler: week jobs enqueued", "week_id", w.ID)
	}
}

func (s *jobScheduler) alreadyEnqueued(weekID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.enqueued[weekID]
	return ok
}

func (s *jobScheduler) markEnqueued(weekID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued[weekID] = struct{}{}
}
