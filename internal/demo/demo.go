// Package demo serves a simulated health endpoint whose checks flap, so the
// dashboard has something to watch without a real service behind it.
package demo

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/pkg/logger"
)

// Path is where the simulated report is served, matching SmallRye's default.
const Path = "/q/health"

const (
	randomDivisor     = 1000000
	maxLatencyMs      = 250
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// DefaultChecks are the simulated checks. Mixed case on purpose so the
// dashboard's case-insensitive ordering is visible.
var DefaultChecks = []string{"ping", "Database connections", "cache", "Disk space"}

// Endpoint is an http.Handler producing SmallRye-shaped health reports.
type Endpoint struct {
	id            string
	checks        []string
	flapRate      float64
	malformedRate float64
	random        func() float64
	requests      atomic.Uint64
	logger        logger.Logger
}

// New creates an Endpoint. By default a check is DOWN one time in five and
// responses are never malformed.
func New(opts ...Option) *Endpoint {
	e := &Endpoint{
		id:       uuid.NewString(),
		checks:   DefaultChecks,
		flapRate: 0.2,
		random:   cryptoFloat,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("demo")
	}
	return e
}

// ID returns the instance id reported in every check.
func (e *Endpoint) ID() string {
	return e.id
}

// Requests returns how many reports have been served.
func (e *Endpoint) Requests() uint64 {
	return e.requests.Load()
}

// Report builds the next simulated report.
func (e *Endpoint) Report() health.Report {
	n := e.requests.Add(1)
	report := health.Report{Status: health.StatusUp, Checks: make([]health.Check, 0, len(e.checks))}

	for _, name := range e.checks {
		c := health.Check{Name: name, Status: health.StatusUp}
		if e.random() < e.flapRate {
			c.Status = health.StatusDown
			report.Status = health.StatusDown
		}
		c.Data = health.Data{
			{Key: "latencyMs", Value: strconv.Itoa(int(e.random() * maxLatencyMs))},
			{Key: "instance", Value: e.id},
			{Key: "request", Value: strconv.FormatUint(n, 10)},
		}
		report.Checks = append(report.Checks, c)
	}
	return report
}

// ServeHTTP answers 200 when every check is UP and 503 otherwise.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := e.Report()
	body, err := json.Marshal(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if report.Status.IsDown() {
		status = http.StatusServiceUnavailable
	}
	if e.random() < e.malformedRate {
		body = body[:len(body)/2]
		e.logger.Debug(r.Context(), "serving malformed report")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Register mounts the endpoint on mux at Path and /health.
func (e *Endpoint) Register(mux *http.ServeMux) {
	mux.Handle("GET "+Path, e)
	mux.Handle("GET /health", e)
}

// Run serves the endpoint on addr until ctx is cancelled.
func (e *Endpoint) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	e.Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info(ctx, "demo health endpoint listening",
			logger.String("addr", addr),
			logger.String("path", Path),
			logger.String("instance", e.id),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrServe, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	e.logger.Info(ctx, "demo health endpoint stopped", logger.Uint64("requests", e.Requests()))
	return nil
}

// cryptoFloat returns a value in [0,1) using crypto/rand.
func cryptoFloat() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	if err != nil {
		return 0
	}
	return float64(n.Int64()) / randomDivisor
}
