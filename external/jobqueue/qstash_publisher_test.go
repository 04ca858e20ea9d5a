package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cards/internal/platform/resilience"
)

func TestQStashPublisher_EnqueueScoreWeek(t *testing.T) {
	t.Parallel()

	var gotPath, gotDedup, gotForwardToken, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		gotForwardToken = r.Header.Get("Upstash-Forward-X-Internal-Job-Token")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.example.com",
		Retries:          2,
		InternalJobToken: "job-token",
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.EnqueueScoreWeek(context.Background(), "2025-w01", 90*time.Second); err != nil {
		t.Fatalf("enqueue score week: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/v1/internal/jobs/score-week") {
		t.Fatalf("expected target job path in publish URL, got %s", gotPath)
	}
	if gotDedup != "score-week:2025-w01" {
		t.Fatalf("unexpected deduplication id: %s", gotDedup)
	}
	if gotForwardToken != "job-token" {
		t.Fatalf("expected internal job token forwarded, got %q", gotForwardToken)
	}
	if !strings.Contains(gotBody, `"week_id":"2025-w01"`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestQStashPublisher_TransientFailureTripsCircuit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "qstash-token",
		TargetBaseURL: "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		if err := publisher.EnqueueScoreWeek(context.Background(), "2025-w01", 0); err == nil {
			t.Fatalf("expected error on attempt %d", i+1)
		}
	}

	err := publisher.EnqueueScoreWeek(context.Background(), "2025-w01", 0)
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}

func TestQStashPublisher_RejectsEmptyJobPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.upstash.io",
		Token:          "qstash-token",
		TargetBaseURL:  "https://api.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatalf("expected error for empty job path")
	}
}
