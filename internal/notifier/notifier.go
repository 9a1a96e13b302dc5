// Package notifier tells users that a stock is now held for them. Every channel
// implements service.HoldNotifier; Multi fans one notification out to several of them.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// NotificationError reports that a hold-created notification could not be delivered on
// one channel. The holding it is about is already committed.
type NotificationError struct {
	Channel   string
	HoldingID int64
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify holding %d via %s: %v", e.HoldingID, e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

var errHoldingNotLoaded = errors.New("holding has no user or stock loaded")

// Notifier is the method set shared by every channel
type Notifier interface {
	NotifyHoldCreated(ctx context.Context, holding *models.Holding) error
}

// Multi notifies on every channel, continuing past failures, and joins their errors
type Multi []Notifier

func (m Multi) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyHoldCreated(ctx, holding); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func bookTitle(holding *models.Holding) string {
	if holding.Stock == nil {
		return ""
	}
	return holding.Stock.Title()
}

func expiration(holding *models.Holding) string {
	return holding.ExpirationDate.Format("2006-01-02")
}

// Channels is the set of channels the configuration enables
type Channels struct {
	Multi
	// Redis is nil when REDIS_URL is unset
	Redis *RedisPublisher
}

// Close releases the redis connection
func (c *Channels) Close() error {
	return c.Redis.Close()
}

// FromConfig assembles the channels the configuration enables. In-app notifications are
// always stored; mail and redis are added when SMTP_HOST and REDIS_URL are set.
func FromConfig(cfg *config.Config, repo repository.NotificationRepository, logger *slog.Logger) (*Channels, error) {
	channels := &Channels{Multi: Multi{NewInApp(repo)}}

	if cfg.MailEnabled() {
		channels.Multi = append(channels.Multi, NewMailer(cfg, logger))
		logger.Info("hold notifications by mail enabled", "smtp_host", cfg.SMTPHost)
	}

	if cfg.RedisEnabled() {
		publisher, err := NewRedisPublisher(cfg.RedisURL, cfg.RedisPassword, cfg.NotifyChannel)
		if err != nil {
			return nil, err
		}
		channels.Multi = append(channels.Multi, publisher)
		channels.Redis = publisher
		logger.Info("hold notifications on redis enabled", "channel", cfg.NotifyChannel)
	}

	return channels, nil
}
