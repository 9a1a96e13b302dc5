package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lendinghub/internal/microservices/http-api/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// HoldCreatedEvent is the payload published for every new holding
type HoldCreatedEvent struct {
	Type           string    `json:"type"`
	HoldingID      int64     `json:"holding_id"`
	StockID        int64     `json:"stock_id"`
	UserID         string    `json:"user_id"`
	BookTitle      string    `json:"book_title"`
	ExpirationDate string    `json:"expiration_date"` // YYYY-MM-DD
	PublishedAt    time.Time `json:"published_at"`
}

func NewHoldCreatedEvent(holding *models.Holding) HoldCreatedEvent {
	return HoldCreatedEvent{
		Type:           models.NotificationHoldCreated,
		HoldingID:      holding.ID,
		StockID:        holding.StockID,
		UserID:         holding.UserID,
		BookTitle:      bookTitle(holding),
		ExpirationDate: expiration(holding),
		PublishedAt:    time.Now().UTC(),
	}
}

// RedisPublisher publishes hold-created events on a pub/sub channel for other services
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to redisURL (redis://host:port/db) and verifies the connection
func NewRedisPublisher(redisURL, password, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{client: rdb, channel: channel}, nil
}

func (p *RedisPublisher) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	if p == nil || p.client == nil {
		// No-op when redis is not configured
		return nil
	}

	payload, err := jsoniter.ConfigFastest.Marshal(NewHoldCreatedEvent(holding))
	if err != nil {
		return &NotificationError{Channel: "redis", HoldingID: holding.ID, Err: err}
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return &NotificationError{Channel: "redis", HoldingID: holding.ID, Err: err}
	}
	return nil
}

// Subscribe calls fn for every event on the channel, from any process, until ctx is
// done. Payloads that do not decode are logged and skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context, fn func(HoldCreatedEvent), logger *slog.Logger) error {
	sub := p.client.Subscribe(ctx, p.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", p.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event HoldCreatedEvent
			if err := jsoniter.ConfigFastest.UnmarshalFromString(msg.Payload, &event); err != nil {
				logger.Warn("undecodable hold event", "channel", msg.Channel, "error", err)
				continue
			}
			fn(event)
		}
	}
}

func (p *RedisPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
