package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/sse"
)

const (
	frameVersion   = 1
	dialTimeout    = 5 * time.Second
	defaultChannel = "insightpath:sse"
)

// SSEBus fans SSE messages out across process instances through a redis
// pub/sub channel, so a notification written by one instance reaches
// clients streaming from another.
type SSEBus interface {
	Publish(ctx context.Context, msg sse.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m sse.SSEMessage)) error
	Close() error
}

// busFrame is the wire format on the pub/sub channel. The version field
// lets a mixed-version deployment drop frames it does not understand
// instead of pushing garbage at connected clients.
type busFrame struct {
	Version int             `json:"v"`
	Channel string          `json:"channel"`
	Event   sse.SSEEvent    `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
	SentAt  time.Time       `json:"sent_at"`
}

func encodeFrame(msg sse.SSEMessage, now time.Time) ([]byte, error) {
	if msg.Channel == "" {
		return nil, fmt.Errorf("sse message channel is required")
	}
	frame := busFrame{
		Version: frameVersion,
		Channel: msg.Channel,
		Event:   msg.Event,
		SentAt:  now,
	}
	if msg.Data != nil {
		raw, err := json.Marshal(msg.Data)
		if err != nil {
			return nil, fmt.Errorf("encode sse payload: %w", err)
		}
		frame.Data = raw
	}
	return json.Marshal(frame)
}

func decodeFrame(payload []byte) (sse.SSEMessage, error) {
	var frame busFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return sse.SSEMessage{}, fmt.Errorf("decode bus frame: %w", err)
	}
	if frame.Version != frameVersion {
		return sse.SSEMessage{}, fmt.Errorf("unsupported bus frame version %d", frame.Version)
	}
	if frame.Channel == "" {
		return sse.SSEMessage{}, fmt.Errorf("bus frame missing channel")
	}
	msg := sse.SSEMessage{Channel: frame.Channel, Event: frame.Event}
	if len(frame.Data) > 0 {
		msg.Data = frame.Data
	}
	return msg, nil
}

type busConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func busConfigFromEnv() (busConfig, error) {
	cfg := busConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		Channel:  strings.TrimSpace(os.Getenv("REDIS_CHANNEL")),
	}
	if cfg.Addr == "" {
		return cfg, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Channel == "" {
		cfg.Channel = defaultChannel
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.DB = n
	}
	return cfg, nil
}

type sseBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewSSEBus(log *logger.Logger) (SSEBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg, err := busConfigFromEnv()
	if err != nil {
		return nil, err
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &sseBus{
		log:     log.With("service", "RedisSSEBus"),
		rdb:     rdb,
		channel: cfg.Channel,
	}, nil
}

func (b *sseBus) Publish(ctx context.Context, msg sse.SSEMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	raw, err := encodeFrame(msg, time.Now().UTC())
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *sseBus) StartForwarder(ctx context.Context, onMsg func(m sse.SSEMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// Confirm the subscription is live before reporting success.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go b.forward(ctx, sub, onMsg)
	return nil
}

func (b *sseBus) forward(ctx context.Context, sub *goredis.PubSub, onMsg func(m sse.SSEMessage)) {
	defer sub.Close()

	feed := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-feed:
			if !ok || m == nil {
				return
			}
			msg, err := decodeFrame([]byte(m.Payload))
			if err != nil {
				b.log.Warn("Dropping bus frame", "error", err)
				continue
			}
			onMsg(msg)
		}
	}
}

func (b *sseBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
