package backoffice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is how often the unread notification count is refreshed.
const DefaultPollInterval = 30 * time.Second

// UnreadCounter fetches the unread notification count.
type UnreadCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// UnreadCounterFunc adapts a function into an UnreadCounter.
type UnreadCounterFunc func(ctx context.Context) (int, error)

func (f UnreadCounterFunc) UnreadCount(ctx context.Context) (int, error) { return f(ctx) }

// PollerOptions configures a NotificationPoller.
type PollerOptions struct {
	Interval time.Duration
	// OnChange is called with the new count whenever it differs from the last one.
	OnChange func(count int)
	Logger   *zerolog.Logger
}

// NotificationPoller owns the session-wide unread count. It fetches once on
// Start, then on every tick until Stop or the start context ends.
type NotificationPoller struct {
	counter  UnreadCounter
	interval time.Duration
	onChange func(int)
	logger   zerolog.Logger

	mu      sync.Mutex
	count   int
	known   bool
	lastErr error
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewNotificationPoller builds a poller; a zero interval selects DefaultPollInterval.
func NewNotificationPoller(counter UnreadCounter, opts PollerOptions) *NotificationPoller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &NotificationPoller{
		counter:  counter,
		interval: interval,
		onChange: opts.OnChange,
		logger:   logger.With().Str("component", "notification_poller").Logger(),
	}
}

// Start launches the polling loop. Calling Start on a running poller is an error.
func (p *NotificationPoller) Start(ctx context.Context) error {
	if p.counter == nil {
		return errors.New("backoffice: notification poller requires a counter")
	}
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return errors.New("backoffice: notification poller already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.loop(loopCtx, done)
	return nil
}

// Stop clears the interval and waits for the loop to exit. It is safe to call
// on a poller that was never started.
func (p *NotificationPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (p *NotificationPoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Count returns the last fetched count and whether any fetch succeeded yet.
func (p *NotificationPoller) Count() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count, p.known
}

// Err returns the error from the most recent fetch, nil after a success.
func (p *NotificationPoller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Refresh fetches immediately, outside the ticker schedule.
func (p *NotificationPoller) Refresh(ctx context.Context) (int, error) {
	count, err := p.counter.UnreadCount(ctx)

	p.mu.Lock()
	if err != nil {
		p.lastErr = err
		previous := p.count
		p.mu.Unlock()
		p.logger.Warn().Err(err).Msg("failed to refresh unread notifications")
		return previous, err
	}
	changed := !p.known || p.count != count
	p.count = count
	p.known = true
	p.lastErr = nil
	onChange := p.onChange
	p.mu.Unlock()

	p.logger.Debug().Int("unread", count).Bool("changed", changed).Msg("unread notifications refreshed")
	if changed && onChange != nil {
		onChange(count)
	}
	return count, nil
}

func (p *NotificationPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	p.logger.Info().Dur("interval", p.interval).Msg("starting notification poller")

	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Refresh(ctx)
		case <-ctx.Done():
			p.logger.Info().Msg("notification poller stopped")
			return
		}
	}
}
