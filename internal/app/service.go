// Package service provides the health poller that ties the settings store,
// the fetcher and the renderer together behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/healthui/internal/adapters/mq/scheduler"
	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/internal/domain/render"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
	"github.com/okian/healthui/pkg/metrics"
)

// Names of the checks reported by SelfHealth.
const (
	CheckSettingsStore = "settings-store"
	CheckPoller        = "poller"
)

const selfHealthTimeout = 2 * time.Second

// Fetcher retrieves one health report.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (*health.Report, error)
}

// Publisher receives every view that replaces the current one.
type Publisher interface {
	Publish(ctx context.Context, v render.View) int
}

// Service owns the current settings, the poll schedule and the current view.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	store     settings.Store
	fetcher   Fetcher
	publisher Publisher
	scheduler *scheduler.Scheduler

	// Configuration
	defaults settings.Settings
	now      func() time.Time

	// State
	settings settings.Settings
	view     render.View
	issued   atomic.Uint64
	started  bool
	ctx      context.Context
	cancel   context.CancelFunc
	pending  sync.WaitGroup

	// Logging
	logger logger.Logger
}

// New constructs a Service. The store may be nil, in which case settings are
// never persisted and always start from defaults.
func New(store settings.Store, fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		store:    store,
		fetcher:  fetcher,
		defaults: settings.Defaults(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("poller")
	}
	s.scheduler = scheduler.New(s.tick, scheduler.WithName("poll"), scheduler.WithLogger(s.logger))
	s.settings = s.defaults
	s.view = render.Empty(s.defaults.Title, s.defaults.EndpointURL)

	return s
}

// Start loads the stored settings, applies the poll cadence and launches the
// first fetch.
func (s *Service) Start(ctx context.Context) error {
	if s.fetcher == nil {
		return ErrNoFetcher
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.settings = settings.Load(ctx, s.store, s.defaults, s.logger)
	s.view = render.Empty(s.settings.Title, s.settings.EndpointURL)
	s.started = true

	s.scheduler.Start(s.ctx, s.settings.Interval())
	s.launchLocked()

	s.logger.Info(ctx, "health poller started",
		logger.String("title", s.settings.Title),
		logger.String("url", s.settings.EndpointURL),
		logger.String("poll", s.settings.Poll),
	)
	return nil
}

// Close stops polling and waits for in-flight fetches or ctx to expire.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	err := s.scheduler.Shutdown(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}

	s.logger.Info(ctx, "health poller stopped")
	return err
}

// Settings returns the settings currently applied.
func (s *Service) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// View returns the view currently shown.
func (s *Service) View() render.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// PollInterval returns the active cadence, 0 when polling is stopped.
func (s *Service) PollInterval() time.Duration {
	return s.scheduler.Interval()
}

// SaveSettings applies next immediately and persists it. A changed endpoint
// triggers a fetch right away; the poll timer is always replaced. A store
// failure is logged and returned, but the settings stay applied.
func (s *Service) SaveSettings(ctx context.Context, next settings.Settings) (settings.Settings, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return settings.Settings{}, ErrNotStarted
	}

	prev := s.settings
	applied := next.WithDefaults(s.defaults)
	endpointChanged := applied.EndpointURL != prev.EndpointURL

	s.settings = applied
	s.view.Title = applied.Title
	view := s.view

	if endpointChanged {
		// Fetches still running against the old endpoint must not land.
		s.issued.Add(1)
		s.launchLocked()
	}
	s.scheduler.Restart(s.ctx, applied.Interval())
	s.mu.Unlock()

	metrics.RecordSettingsSave(endpointChanged)
	s.logger.Info(ctx, "settings applied",
		logger.String("title", applied.Title),
		logger.String("url", applied.EndpointURL),
		logger.String("poll", applied.Poll),
		logger.Bool("endpointChanged", endpointChanged),
	)

	if !endpointChanged {
		s.publish(ctx, view)
	}

	if err := settings.Save(ctx, s.store, prev, next); err != nil {
		s.logger.Warn(ctx, "settings not persisted", logger.Error(err))
		return applied, err
	}
	return applied, nil
}

// Refresh fetches the configured endpoint now and applies the result unless a
// newer fetch has been issued meanwhile. It returns the current view and
// whether this fetch's result was applied.
func (s *Service) Refresh(ctx context.Context) (render.View, bool) {
	if s.fetcher == nil {
		return s.View(), false
	}

	// The sequence and the endpoint are taken together so a result is never
	// applied under settings newer than the ones it was fetched with.
	s.mu.Lock()
	seq := s.issued.Add(1)
	current := s.settings
	s.mu.Unlock()

	report, err := s.fetcher.Fetch(ctx, current.EndpointURL)

	var v render.View
	down := 0
	if err != nil {
		v = render.RenderError(current.Title, current.EndpointURL, health.AsFetchError(current.EndpointURL, err))
	} else {
		v = render.Render(current.Title, current.EndpointURL, report)
		down = report.DownCount()
	}
	v.Sequence = seq
	v.UpdatedAt = s.now()

	return s.apply(ctx, v, down)
}

func (s *Service) apply(ctx context.Context, v render.View, down int) (render.View, bool) {
	s.mu.Lock()
	if v.Sequence != s.issued.Load() {
		current := s.view
		s.mu.Unlock()
		metrics.RecordStaleResponse()
		s.logger.Debug(ctx, "dropping stale health response",
			logger.Uint64("sequence", v.Sequence),
			logger.Uint64("latest", s.issued.Load()),
		)
		return current, false
	}
	v.Title = s.settings.Title
	s.view = v
	s.mu.Unlock()

	metrics.RecordViewApplied(len(v.Cards), down)
	s.publish(ctx, v)
	return v, true
}

func (s *Service) publish(ctx context.Context, v render.View) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, v)
}

func (s *Service) tick(ctx context.Context) {
	s.Refresh(ctx)
}

// launchLocked starts an asynchronous refresh on the service context.
func (s *Service) launchLocked() {
	ctx := s.ctx
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.Refresh(ctx)
	}()
}

// SelfHealth reports the poller's own health in the same shape it consumes.
func (s *Service) SelfHealth(ctx context.Context) health.Report {
	ctx, cancel := context.WithTimeout(ctx, selfHealthTimeout)
	defer cancel()

	checks := []health.Check{s.storeCheck(ctx), s.pollerCheck()}
	status := health.StatusUp
	for _, c := range checks {
		if c.Status.IsDown() {
			status = health.StatusDown
		}
	}
	return health.Report{Status: status, Checks: checks}
}

func (s *Service) storeCheck(ctx context.Context) health.Check {
	c := health.Check{Name: CheckSettingsStore, Status: health.StatusUp}
	if s.store == nil {
		c.Data = health.Data{{Key: "backend", Value: "none"}}
		return c
	}
	c.Data = health.Data{{Key: "backend", Value: fmt.Sprintf("%T", s.store)}}
	if err := s.pingStore(ctx); err != nil {
		c.Status = health.StatusDown
		c.Data = append(c.Data, health.Entry{Key: "error", Value: err.Error()})
	}
	return c
}

// pinger is implemented by stores that can check liveness more cheaply than a read.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Service) pingStore(ctx context.Context) error {
	if p, ok := s.store.(pinger); ok {
		return p.Ping(ctx)
	}
	_, _, err := s.store.Get(ctx, settings.KeyTitle)
	return err
}

func (s *Service) pollerCheck() health.Check {
	s.mu.RLock()
	started := s.started
	current := s.settings
	view := s.view
	s.mu.RUnlock()

	c := health.Check{Name: CheckPoller, Status: health.StatusUp}
	if !started {
		c.Status = health.StatusDown
	}
	c.Data = health.Data{
		{Key: "url", Value: current.EndpointURL},
		{Key: "poll", Value: current.Poll},
		{Key: "running", Value: strconv.FormatBool(s.scheduler.Running())},
		{Key: "sequence", Value: strconv.FormatUint(view.Sequence, 10)},
	}
	if !view.UpdatedAt.IsZero() {
		c.Data = append(c.Data, health.Entry{Key: "updatedAt", Value: view.UpdatedAt.UTC().Format(time.RFC3339)})
	}
	return c
}
