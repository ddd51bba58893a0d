package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"lima-segura/internal/domain/entity"
	"lima-segura/internal/handler/http/requestid"
	"lima-segura/internal/resilience/circuitbreaker"

	"github.com/sony/gobreaker"
)

const (
	defaultMaxConcurrent = 10
	workerPoolTimeout    = 5 * time.Second
	notificationTimeout  = 30 * time.Second
)

// Service dispatches incident notifications to every enabled channel.
type Service interface {
	// NotifyNewIncident returns immediately; delivery happens in background
	// goroutines and failures are logged and counted, never returned. The
	// only error is ErrInvalidIncident.
	NotifyNewIncident(ctx context.Context, inc entity.Incident) error

	// GetChannelHealth reports each channel's breaker state.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown cancels in-flight sends and waits for them until ctx is done.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus is the health of one notification channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
	State              string `json:"state"`
}

type service struct {
	channels       []Channel
	breakers       map[string]*circuitbreaker.CircuitBreaker
	workerPool     chan struct{}
	poolTimeout    time.Duration
	wg             sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewService creates a notification service. maxConcurrent bounds the
// number of sends in flight across all channels.
func NewService(channels []Channel, maxConcurrent int) Service {
	return newService(channels, maxConcurrent, circuitbreaker.NotifyChannelConfig)
}

func newService(channels []Channel, maxConcurrent int, breakerConfig func(string) circuitbreaker.Config) *service {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	svc := &service{
		channels:       channels,
		breakers:       make(map[string]*circuitbreaker.CircuitBreaker, len(channels)),
		workerPool:     make(chan struct{}, maxConcurrent),
		poolTimeout:    workerPoolTimeout,
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	enabled := 0
	for _, ch := range channels {
		svc.breakers[ch.Name()] = circuitbreaker.New(breakerConfig(ch.Name()))
		if ch.IsEnabled() {
			enabled++
		}
	}
	channelsEnabled.Set(float64(enabled))

	return svc
}

// NotifyNewIncident implements Service.
func (s *service) NotifyNewIncident(ctx context.Context, inc entity.Incident) error {
	if err := validateIncident(inc); err != nil {
		slog.Warn("Invalid notification input",
			slog.Int64("incident_id", inc.ID),
			slog.String("link", inc.Link))
		return err
	}

	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = requestid.New()
	}

	dispatched := 0
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		dispatched++
		s.wg.Add(1)
		go s.notifyChannel(requestID, ch, inc)
	}

	if dispatched == 0 {
		slog.Debug("No notification channels enabled",
			slog.String("request_id", requestID),
			slog.Int64("incident_id", inc.ID))
		return nil
	}

	slog.Info("Dispatching incident notification",
		slog.String("request_id", requestID),
		slog.Int64("incident_id", inc.ID),
		slog.String("district", inc.District),
		slog.String("link", inc.Link),
		slog.Int("enabled_channels", dispatched))
	return nil
}

func (s *service) notifyChannel(requestID string, channel Channel, inc entity.Incident) {
	defer s.wg.Done()

	inFlight.Inc()
	defer inFlight.Dec()

	name := channel.Name()
	logger := slog.With(
		slog.String("request_id", requestID),
		slog.String("channel", name),
		slog.Int64("incident_id", inc.ID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(s.poolTimeout):
		logger.Warn("Notification dropped", slog.Any("error", ErrNotificationDropped))
		recordOutcome(name, outcomePoolFull)
		return
	case <-s.shutdownCtx.Done():
		recordOutcome(name, outcomeShutdown)
		return
	}

	breaker := s.breakers[name]
	wasOpen := breaker.IsOpen()

	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, requestID)

	start := time.Now()
	_, err := breaker.Execute(func() (interface{}, error) {
		return nil, channel.Send(ctx, inc)
	})
	duration := time.Since(start)

	if !wasOpen && breaker.IsOpen() {
		logger.Error("Circuit breaker opened for channel")
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		logger.Warn("Channel temporarily disabled by circuit breaker",
			slog.Any("error", fmt.Errorf("%w: %v", ErrCircuitBreakerOpen, err)))
		recordOutcome(name, outcomeCircuitOpen)
	case err != nil:
		recordAttempt(name, err, duration)
		logger.Warn("Channel notification failed",
			slog.String("link", inc.Link),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
	default:
		recordAttempt(name, nil, duration)
		logger.Info("Channel notification sent",
			slog.String("headline", inc.Headline),
			slog.Duration("send_duration", duration))
	}
}

// GetChannelHealth implements Service.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		breaker := s.breakers[ch.Name()]
		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: breaker.IsOpen(),
			State:              breaker.State().String(),
		})
	}
	return statuses
}

// Shutdown implements Service.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down notification service")
	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("Notification service shutdown timeout")
		return ctx.Err()
	}
}
