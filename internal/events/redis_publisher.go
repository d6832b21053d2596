package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelPrefix namespaces the change-notification channels.
const ChannelPrefix = "helpdesk.events."

// RedisPublisher forwards dispatched events onto Redis pub/sub channels keyed
// by entity type, so external consumers receive pushed change notifications
// without holding live queries open against the store.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates the publisher.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

// Register attaches the publisher to every event type on the dispatcher.
func (p *RedisPublisher) Register(dispatcher Dispatcher) {
	if p == nil || dispatcher == nil {
		return
	}
	dispatcher.SubscribeAll(p.handle)
}

func (p *RedisPublisher) handle(ctx context.Context, event Event) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", zap.Error(err), zap.String("event_type", string(event.Type)))
		return err
	}
	channel := ChannelPrefix + event.Type.EntityType()
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Warn("publish event to redis",
			zap.Error(err),
			zap.String("channel", channel),
			zap.String("event_id", event.ID))
		return err
	}
	return nil
}
