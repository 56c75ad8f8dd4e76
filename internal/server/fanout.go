package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yourusername/xchat/internal/protocol"
)

// Fanout carries global chat events (ooc, announce, system) to every server
// instance. Each instance delivers what it receives to its own players.
type Fanout interface {
	Publish(ctx context.Context, msg protocol.ChatMessagePayload) error
	Subscribe(sink func(protocol.ChatMessagePayload))
}

// LocalFanout delivers synchronously inside one process
type LocalFanout struct {
	sinks []func(protocol.ChatMessagePayload)
	mu    sync.RWMutex
}

// NewLocalFanout creates an in-process fanout
func NewLocalFanout() *LocalFanout {
	return &LocalFanout{}
}

// Subscribe registers a sink for published events
func (f *LocalFanout) Subscribe(sink func(protocol.ChatMessagePayload)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sink)
}

// Publish hands msg to every sink
func (f *LocalFanout) Publish(_ context.Context, msg protocol.ChatMessagePayload) error {
	f.mu.RLock()
	sinks := append([]func(protocol.ChatMessagePayload){}, f.sinks...)
	f.mu.RUnlock()

	for _, sink := range sinks {
		sink(msg)
	}
	return nil
}

// RedisFanout publishes global events on a redis channel so that players
// connected to other instances receive them too
type RedisFanout struct {
	client  *redis.Client
	channel string
	local   *LocalFanout
	log     zerolog.Logger
}

// NewRedisFanout creates a fanout on the given redis channel. Call Run to start
// receiving.
func NewRedisFanout(client *redis.Client, channel string, logger zerolog.Logger) *RedisFanout {
	return &RedisFanout{
		client:  client,
		channel: channel,
		local:   NewLocalFanout(),
		log:     logger.With().Str("component", "redis-fanout").Logger(),
	}
}

// Subscribe registers a sink for events received from redis
func (f *RedisFanout) Subscribe(sink func(protocol.ChatMessagePayload)) {
	f.local.Subscribe(sink)
}

// Publish sends msg to every instance, this one included
func (f *RedisFanout) Publish(ctx context.Context, msg protocol.ChatMessagePayload) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("publish chat event: %w", err)
	}
	return nil
}

// Run listens on the redis channel until ctx is cancelled
func (f *RedisFanout) Run(ctx context.Context) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg protocol.ChatMessagePayload
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				f.log.Warn().Err(err).Msg("dropping malformed chat event")
				continue
			}
			f.local.Publish(ctx, msg)
		}
	}
}
