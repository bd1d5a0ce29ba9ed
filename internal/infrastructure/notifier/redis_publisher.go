package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// redisClient is the subset of *redis.Client the publisher calls
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

type redisPublisher struct {
	client redisClient
	prefix string
	logger logger.Logger
}

// NewPublisher creates the Publisher selected by settings
func NewPublisher(settings *config.NotifierSettings, logger logger.Logger) (notifications.Publisher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	switch settings.Type {
	case config.NotifierTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		})
		return newRedisPublisher(client, settings.ChannelPrefix, logger), nil
	case config.NotifierTypeNoop:
		return NewNoopPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", settings.Type)
	}
}

func newRedisPublisher(client redisClient, prefix string, logger logger.Logger) *redisPublisher {
	return &redisPublisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the realtime channel of userID
func Channel(prefix, userID string) string {
	return prefix + ":" + userID
}

func (p *redisPublisher) Publish(ctx context.Context, n *notifications.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	channel := Channel(p.prefix, n.UserID)
	receivers, err := p.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Debug("Published notification ", n.ID, " on ", channel, " to ", receivers, " subscribers")
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

type noopPublisher struct {
	logger logger.Logger
}

// NewNoopPublisher creates a Publisher that only logs, used when redis is not configured
func NewNoopPublisher(logger logger.Logger) notifications.Publisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) Publish(_ context.Context, n *notifications.Notification) error {
	p.logger.Debug("Realtime delivery disabled, skipping notification ", n.ID)
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
