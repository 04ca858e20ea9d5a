// Package jobqueue publishes deferred internal jobs through Upstash
// QStash. QStash calls back into the API's internal job routes,
// forwarding the internal job token so the callback passes
// RequireInternalJobToken.
package jobqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cards/internal/platform/resilience"
)

var errQStashTransient = crerr.New("qstash transient failure")

const maxLoggedBodyBytes = 4096

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled:   breakerCfg.Enabled,
	}
}

type scoreWeekJobPayload struct {
	WeekID string `json:"week_id"`
}

type recomputeTrendsJobPayload struct {
	Season int `json:"season"`
}

// EnqueueScoreWeek schedules the score-week job for a locked week. The
// deduplication ID keeps repeated enqueues for the same week collapsed to
// a single delivery.
func (p *QStashPublisher) EnqueueScoreWeek(ctx context.Context, weekID string, delay time.Duration) error {
	return p.Enqueue(ctx, "/v1/internal/jobs/score-week", scoreWeekJobPayload{WeekID: weekID}, delay, "score-week:"+weekID)
}

func (p *QStashPublisher) EnqueueRecomputeTrends(ctx context.Context, season int, weekID string, delay time.Duration) error {
	payload := recomputeTrendsJobPayload{Season: season}
	return p.Enqueue(ctx, "/v1/internal/jobs/recompute-trends", payload, delay, fmt.Sprintf("trends:%d:%s", season, weekID))
}

// Enqueue publishes one job to QStash. Transport errors and retryable
// statuses count against the circuit breaker; 4xx rejections do not, since
// they indicate a bad request rather than an unhealthy dependency.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("qstash is temporarily unavailable: %w", err)
		}
	}

	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}

	publishURL, targetURL, err := p.publishURLs(path)
	if err != nil {
		return err
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	p.annotatePublish(ctx, publishURL, targetURL, path, body, delay, deduplicationID)

	req, err := p.newPublishRequest(ctx, publishURL, body, delay, deduplicationID)
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish qstash job target_url=%s publish_url=%s: %v", errQStashTransient, targetURL, publishURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBodyBytes))
		detail := fmt.Sprintf(
			"publish qstash job status=%d target_url=%s publish_url=%s body=%s",
			resp.StatusCode, targetURL, publishURL, strings.TrimSpace(string(raw)),
		)

		var callErr error
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %s", errQStashTransient, detail)
		} else {
			callErr = stderrors.New(detail)
		}
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", normalizeDelay(delay), "deduplication_id", deduplicationID)
	p.recordCircuitResult(nil)
	return nil
}

func (p *QStashPublisher) publishURLs(path string) (publishURL, targetURL string, err error) {
	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return "", "", crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return "", "", crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	targetURL = targetBaseURL + path
	return baseURL + "/v2/publish/" + targetURL, targetURL, nil
}

func (p *QStashPublisher) newPublishRequest(ctx context.Context, publishURL string, body []byte, delay time.Duration, deduplicationID string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if delay > 0 {
		req.Header.Set("Upstash-Delay", normalizeDelay(delay))
	}
	if id := strings.TrimSpace(deduplicationID); id != "" {
		req.Header.Set("Upstash-Deduplication-Id", id)
	}
	if p.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", p.internalJobToken)
	}

	return req, nil
}

// annotatePublish records the outgoing publish on the active span and in
// the log stream, including a redacted curl preview for manual replay.
func (p *QStashPublisher) annotatePublish(ctx context.Context, publishURL, targetURL, path string, body []byte, delay time.Duration, deduplicationID string) {
	bodyText := truncateForLog(string(body), maxLoggedBodyBytes)
	curlPreview := buildCurlPreview(publishURL, path, normalizeDelay(delay), p.retries, deduplicationID, bodyText, p.internalJobToken != "")

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.path", path),
			attribute.String("qstash.request_body", bodyText),
			attribute.String("qstash.request_curl_preview", curlPreview),
		)
	}

	p.logger.InfoContext(ctx, "qstash publish request",
		"path", path,
		"target_url", targetURL,
		"publish_url", publishURL,
		"curl_preview", curlPreview,
	)
}

func (p *QStashPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errQStashTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%ds", seconds)
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(
	publishURL string,
	path string,
	delay string,
	retries int,
	deduplicationID string,
	body string,
	withForwardToken bool,
) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	part := func(s string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(s)
	}
	header := func(value string) {
		part("-H")
		part(shellQuote(value))
	}

	part("curl")
	part("-X")
	part("POST")
	part(shellQuote(publishURL))
	header("Authorization: Bearer ***")
	header("Content-Type: application/json")
	header("Upstash-Method: POST")
	if retries > 0 {
		header("Upstash-Retries: " + strconv.Itoa(retries))
	}
	if strings.TrimSpace(delay) != "" && delay != "0s" {
		header("Upstash-Delay: " + delay)
	}
	if id := strings.TrimSpace(deduplicationID); id != "" {
		header("Upstash-Deduplication-Id: " + id)
	}
	if withForwardToken {
		header("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	part("-d")
	part(shellQuote(body))
	part("#")
	part(shellQuote("path=" + path))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
