package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/Productivity/internal/hermes"
	"github.com/MikeSquared-Agency/Productivity/internal/productivity"
)

type Calculator interface {
	Calculate(ctx context.Context, trigger string) productivity.Response
}

// Scheduler runs calculations on a fixed interval and on request events.
// Runs are serialized on the loop goroutine.
type Scheduler struct {
	calc     Calculator
	hermes   hermes.Client
	interval time.Duration
	logger   *slog.Logger

	lastMu sync.RWMutex
	last   *productivity.Response
	lastAt time.Time

	requests chan struct{}
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(calc Calculator, h hermes.Client, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		calc:     calc,
		hermes:   h,
		interval: interval,
		logger:   logger,
		requests: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// SetupSubscriptions listens for calculation requests on NATS.
func (s *Scheduler) SetupSubscriptions() {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Subscribe(hermes.SubjectCalculateRequest, func(_ string, _ []byte) {
		s.Request()
	}); err != nil {
		s.logger.Warn("failed to subscribe to calculate requests", "error", err)
	}
}

// Request queues a calculation. Requests made while one is already queued
// are coalesced.
func (s *Scheduler) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Last returns the most recent response and when it was produced.
func (s *Scheduler) Last() (*productivity.Response, time.Time) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last, s.lastAt
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-tick:
			s.run(ctx, productivity.TriggerSchedule)
		case <-s.requests:
			s.run(ctx, productivity.TriggerEvent)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	resp := s.calc.Calculate(ctx, trigger)

	s.lastMu.Lock()
	s.last = &resp
	s.lastAt = time.Now()
	s.lastMu.Unlock()
}
