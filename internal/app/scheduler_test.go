package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/external/jobqueue"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

func TestJobScheduler_EnqueuesCompletedWeekOnce(t *testing.T) {
	var published atomic.Int64
	qstash := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		published.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer qstash.Close()

	now := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)
	weekRepo := memory.NewWeekRepository([]week.Week{
		{
			ID:      "2025-w01",
			Season:  2025,
			Number:  1,
			StartAt: now.AddDate(0, 0, -11),
			LockAt:  now.AddDate(0, 0, -8),
			EndAt:   now.AddDate(0, 0, -6),
		},
		{
			ID:      "2025-w02",
			Season:  2025,
			Number:  2,
			StartAt: now.AddDate(0, 0, -4),
			LockAt:  now.AddDate(0, 0, -1),
			EndAt:   now.AddDate(0, 0, 1),
		},
	})

	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          qstash.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "http://api.internal:8080",
		InternalJobToken: "job-secret",
	}, logging.NewNop())

	scheduler := newJobScheduler(publisher, weekRepo, jobSchedulerConfig{
		Interval:   time.Minute,
		ScoreDelay: 2 * time.Minute,
		TrendDelay: 10 * time.Minute,
	}, logging.NewNop())
	scheduler.now = func() time.Time { return now }

	scheduler.tick(context.Background())
	// Only week 1 is completed: one score job plus one trend job.
	if got := published.Load(); got != 2 {
		t.Fatalf("expected 2 published jobs, got %d", got)
	}

	scheduler.tick(context.Background())
	if got := published.Load(); got != 2 {
		t.Fatalf("expected repeat tick to publish nothing, got %d", got)
	}
}
