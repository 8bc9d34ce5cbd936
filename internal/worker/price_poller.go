// Package worker provides background workers for price polling and guest
// account cleanup.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// PriceSyncer defines the price operations the poller drives.
type PriceSyncer interface {
	SyncPrices(ctx context.Context) (int, error)
	SyncMapping(ctx context.Context) (int, error)
}

// PricePoller periodically pulls prices and volumes from the upstream API,
// and refreshes the item mapping on a slower cadence.
type PricePoller struct {
	priceSvc PriceSyncer
	metrics  *utils.MetricsCollector

	pollTicker    *time.Ticker
	mappingTicker *time.Ticker
	stopChan      chan struct{}
	running       bool
}

// NewPricePoller creates a new price poller. metrics may be nil.
func NewPricePoller(priceSvc PriceSyncer, metrics *utils.MetricsCollector) *PricePoller {
	return &PricePoller{
		priceSvc: priceSvc,
		metrics:  metrics,
		stopChan: make(chan struct{}),
	}
}

// Start begins the polling loop. An initial mapping refresh and price poll
// run immediately so the kitchen is usable right after boot.
func (w *PricePoller) Start(pollInterval, mappingInterval time.Duration) {
	if w.running {
		utils.Warn("price poller is already running")
		return
	}

	w.running = true
	w.pollTicker = time.NewTicker(pollInterval)
	w.mappingTicker = time.NewTicker(mappingInterval)

	utils.Info("starting price poller",
		slog.String("poll_interval", pollInterval.String()),
		slog.String("mapping_interval", mappingInterval.String()),
	)

	go func() {
		w.syncMapping()
		w.syncPrices()
		w.processLoop()
	}()
}

// Stop gracefully stops the poller.
func (w *PricePoller) Stop(ctx context.Context) error {
	if !w.running {
		return nil
	}

	utils.Info("stopping price poller")

	close(w.stopChan)
	w.pollTicker.Stop()
	w.mappingTicker.Stop()

	done := make(chan struct{})
	go func() {
		for w.running {
			time.Sleep(100 * time.Millisecond)
		}
		close(done)
	}()

	select {
	case <-done:
		utils.Info("price poller stopped gracefully")
		return nil
	case <-ctx.Done():
		utils.Warn("price poller stop timed out")
		return ctx.Err()
	}
}

func (w *PricePoller) processLoop() {
	defer func() {
		w.running = false
	}()

	for {
		select {
		case <-w.pollTicker.C:
			w.syncPrices()
		case <-w.mappingTicker.C:
			w.syncMapping()
		case <-w.stopChan:
			return
		}
	}
}

func (w *PricePoller) syncPrices() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	written, err := w.priceSvc.SyncPrices(ctx)
	if w.metrics != nil {
		w.metrics.RecordPoll(err)
	}
	if err != nil {
		utils.Error("price poll failed", slog.String("error", err.Error()))
		return
	}

	utils.Info("price poll completed", slog.Int("snapshots", written))
}

func (w *PricePoller) syncMapping() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := w.priceSvc.SyncMapping(ctx)
	if err != nil {
		utils.Error("item mapping refresh failed", slog.String("error", err.Error()))
		return
	}

	utils.Info("item mapping refreshed", slog.Int("items", count))
}
