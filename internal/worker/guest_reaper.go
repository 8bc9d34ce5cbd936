package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// GuestPurger defines the user operation the reaper drives.
type GuestPurger interface {
	PurgeStaleGuests(ctx context.Context, ttl time.Duration) (int, error)
}

// GuestReaper periodically removes guest accounts that have been idle
// longer than the configured TTL, along with their recipes.
type GuestReaper struct {
	userSvc GuestPurger
	ttl     time.Duration
	metrics *utils.MetricsCollector

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
}

// NewGuestReaper creates a new guest reaper. metrics may be nil.
func NewGuestReaper(userSvc GuestPurger, ttl time.Duration, metrics *utils.MetricsCollector) *GuestReaper {
	return &GuestReaper{
		userSvc:  userSvc,
		ttl:      ttl,
		metrics:  metrics,
		stopChan: make(chan struct{}),
	}
}

// Start begins the reaping loop.
func (w *GuestReaper) Start(interval time.Duration) {
	if w.running {
		utils.Warn("guest reaper is already running")
		return
	}

	w.running = true
	w.ticker = time.NewTicker(interval)

	utils.Info("starting guest reaper",
		slog.String("interval", interval.String()),
		slog.String("ttl", w.ttl.String()),
	)

	go w.processLoop()
}

// Stop gracefully stops the reaper.
func (w *GuestReaper) Stop(ctx context.Context) error {
	if !w.running {
		return nil
	}

	utils.Info("stopping guest reaper")

	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}

	done := make(chan struct{})
	go func() {
		for w.running {
			time.Sleep(100 * time.Millisecond)
		}
		close(done)
	}()

	select {
	case <-done:
		utils.Info("guest reaper stopped gracefully")
		return nil
	case <-ctx.Done():
		utils.Warn("guest reaper stop timed out")
		return ctx.Err()
	}
}

func (w *GuestReaper) processLoop() {
	defer func() {
		w.running = false
	}()

	for {
		select {
		case <-w.ticker.C:
			w.reap()
		case <-w.stopChan:
			return
		}
	}
}

func (w *GuestReaper) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := w.userSvc.PurgeStaleGuests(ctx, w.ttl)
	if err != nil {
		utils.Error("guest reap failed", slog.String("error", err.Error()))
		return
	}

	if w.metrics != nil && removed > 0 {
		w.metrics.RecordGuestsReaped(removed)
	}
}
