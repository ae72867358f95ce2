package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/sse"
	"github.com/nextclass/nextclass-backend/internal/utils"
)

// Bus bridges job-status events across replicas through redis pub/sub: a
// worker publishes on one instance and every instance forwards into its
// local SSE hub.
type Bus interface {
	Publish(ctx context.Context, msg sse.Message) error
	StartForwarder(ctx context.Context, onMsg func(m sse.Message))
	Close() error
}

type bus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewBus(log *logger.Logger) (Bus, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := strings.TrimSpace(utils.GetEnv("REDIS_CHANNEL", "nextclass:events", log))

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &bus{
		log:     log.With("service", "RedisBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *bus) Publish(ctx context.Context, msg sse.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal bus message: %w", err)
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *bus) StartForwarder(ctx context.Context, onMsg func(m sse.Message)) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-ch:
				if !ok {
					return
				}
				var msg sse.Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					b.log.Warn("Dropping undecodable bus message", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
}

func (b *bus) Close() error {
	return b.rdb.Close()
}
