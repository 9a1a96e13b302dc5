// Package sweeper cancels expired holdings on an interval, passing each freed stock on
// to its next reservation.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/service"
)

// HoldExpirer is the part of service.HoldService the sweeper drives
type HoldExpirer interface {
	ListExpired(ctx context.Context) ([]models.Holding, error)
	Cancel(ctx context.Context, holding *models.Holding) (*models.Holding, error)
}

// Result counts one sweep
type Result = service.Expiry

type Sweeper struct {
	holds    HoldExpirer
	workers  int
	interval time.Duration
	logger   *slog.Logger
}

func New(holds HoldExpirer, workers int, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{holds: holds, workers: workers, interval: interval, logger: logger}
}

// Run sweeps once immediately and then every interval until ctx is done
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.SweepOnce(ctx); err != nil {
			s.logger.Error("sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SweepOnce cancels every holding that expired before today
func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	holdings, err := s.holds.ListExpired(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(holdings) == 0 {
		return Result{}, nil
	}

	var mu sync.Mutex
	result := Result{Found: len(holdings)}

	pool := NewWorkerPool(ctx, s.workers, s.logger)
	pool.Start()
	for i := range holdings {
		holding := &holdings[i]
		pool.Submit(func(ctx context.Context) error {
			next, err := s.holds.Cancel(ctx, holding)
			mu.Lock()
			result.Record(next, err)
			mu.Unlock()
			return err
		})
	}
	pool.Wait()

	s.logger.Info("expired holdings swept",
		"found", result.Found,
		"expired", result.Expired,
		"cascaded", result.Cascaded,
		"failed", result.Failed,
		"notify_failed", result.NotifyFailed)
	return result, nil
}
