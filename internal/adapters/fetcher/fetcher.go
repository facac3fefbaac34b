// Package fetcher issues the GET against the monitored health endpoint.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/pkg/logger"
	"github.com/okian/healthui/pkg/metrics"
)

// Default fetcher configuration constants.
const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "healthui"
	requestIDHeader  = "X-Request-ID"
)

// Fetcher performs one GET per call. It neither caches nor retries.
type Fetcher struct {
	client  *req.Client
	base    *url.URL
	timeout time.Duration
	agent   string
	logger  logger.Logger
}

// New creates a Fetcher with configuration options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: defaultTimeout,
		agent:   defaultUserAgent,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = req.C()
	}
	f.client.SetTimeout(f.timeout).SetUserAgent(f.agent)
	return f
}

// Resolve turns a possibly relative endpoint into an absolute URL using the
// configured base URL.
func (f *Fetcher) Resolve(endpoint string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || f.base == nil {
		return ref.String(), nil
	}
	return f.base.ResolveReference(ref).String(), nil
}

// Fetch GETs endpoint and decodes the health payload. HTTP 200 and 503 are
// both successes as long as the body parses. Any failure is a
// *health.FetchError whose URL is endpoint as configured.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (*health.Report, error) {
	start := time.Now()
	requestID := uuid.NewString()

	report, ferr := f.fetch(ctx, endpoint, requestID)

	latency := float64(time.Since(start).Milliseconds())
	outcome := outcomeOf(report, ferr)
	metrics.RecordFetch(outcome, latency)

	if ferr != nil {
		f.logger.Warn(ctx, "health fetch failed",
			logger.String("url", endpoint),
			logger.String("requestID", requestID),
			logger.String("kind", ferr.Kind.String()),
			logger.Int("status", ferr.StatusCode),
			logger.String("message", ferr.Message),
		)
		return nil, ferr
	}

	f.logger.Debug(ctx, "health fetched",
		logger.String("url", endpoint),
		logger.String("requestID", requestID),
		logger.String("status", string(report.Status)),
		logger.Int("checks", len(report.Checks)),
		logger.Float64("latencyMs", latency),
	)
	return report, nil
}

func (f *Fetcher) fetch(ctx context.Context, endpoint, requestID string) (*health.Report, *health.FetchError) {
	target, err := f.Resolve(endpoint)
	if err != nil {
		return nil, &health.FetchError{Kind: health.KindNetwork, URL: endpoint, Message: err.Error(), Err: err}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		SetHeader("Accept", "application/json").
		Get(target)
	if err != nil {
		return nil, &health.FetchError{Kind: health.KindNetwork, URL: endpoint, Message: err.Error(), Err: err}
	}

	body := resp.String()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return nil, &health.FetchError{
			Kind:       health.KindUnexpectedStatus,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
			RawBody:    body,
		}
	}

	report, err := health.Decode(resp.Bytes())
	if err != nil {
		return nil, &health.FetchError{
			Kind:       health.KindParse,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    err.Error(),
			RawBody:    body,
			Err:        err,
		}
	}
	return report, nil
}

func outcomeOf(r *health.Report, ferr *health.FetchError) string {
	if ferr != nil {
		switch ferr.Kind {
		case health.KindUnexpectedStatus:
			return metrics.OutcomeUnexpectedStatus
		case health.KindParse:
			return metrics.OutcomeParse
		default:
			return metrics.OutcomeNetwork
		}
	}
	if r.Status.IsDown() {
		return metrics.OutcomeDown
	}
	return metrics.OutcomeUp
}

// String describes the fetcher for logs.
func (f *Fetcher) String() string {
	base := "<none>"
	if f.base != nil {
		base = f.base.String()
	}
	return fmt.Sprintf("fetcher(base=%s, timeout=%s)", base, f.timeout)
}
