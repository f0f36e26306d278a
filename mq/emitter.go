package mq

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wayfarer/models"
)

// Channel carries itinerary change events between instances.
const Channel = "itinerary-events"

// Broadcaster delivers a payload to every live viewer of a room.
type Broadcaster interface {
	Publish(room string, payload []byte)
}

// PubSub is the part of the Redis client the emitter and worker need.
type PubSub interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisEmitter publishes itinerary events to Redis so every instance can forward them.
type RedisEmitter struct {
	rdb     PubSub
	channel string
	log     *zap.Logger
}

func NewRedisEmitter(rdb PubSub, log *zap.Logger) *RedisEmitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisEmitter{rdb: rdb, channel: Channel, log: log}
}

// Emit is fire and forget. Failures are logged.
func (e *RedisEmitter) Emit(ctx context.Context, ev models.ItineraryEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		e.log.Error("failed to marshal event", zap.Error(err))
		return
	}
	if err := e.rdb.Publish(ctx, e.channel, data).Err(); err != nil {
		e.log.Warn("failed to publish event",
			zap.String("channel", e.channel),
			zap.String("action", ev.Action),
			zap.String("itinerary", ev.ItineraryID),
			zap.Error(err))
	}
}

// Worker forwards events from the Redis channel to local viewers.
type Worker struct {
	rdb     PubSub
	channel string
	out     Broadcaster
	log     *zap.Logger
}

func NewWorker(rdb PubSub, out Broadcaster, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{rdb: rdb, channel: Channel, out: out, log: log}
}

// Run blocks until ctx is cancelled or the subscription closes.
func (w *Worker) Run(ctx context.Context) error {
	sub := w.rdb.Subscribe(ctx, w.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	w.log.Info("listening for itinerary events", zap.String("channel", w.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("subscription closed")
			}
			dispatch(w.out, []byte(msg.Payload), w.log)
		}
	}
}

// Direct delivers events to the local hub without a broker.
type Direct struct {
	out Broadcaster
	log *zap.Logger
}

func NewDirect(out Broadcaster, log *zap.Logger) *Direct {
	if log == nil {
		log = zap.NewNop()
	}
	return &Direct{out: out, log: log}
}

func (d *Direct) Emit(_ context.Context, ev models.ItineraryEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		d.log.Error("failed to marshal event", zap.Error(err))
		return
	}
	dispatch(d.out, data, d.log)
}

func dispatch(out Broadcaster, payload []byte, log *zap.Logger) {
	var ev models.ItineraryEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Warn("failed to parse event", zap.Error(err))
		return
	}
	if ev.ItineraryID == "" {
		log.Warn("event without itinerary id", zap.String("action", ev.Action))
		return
	}
	out.Publish(ev.ItineraryID, payload)
}
