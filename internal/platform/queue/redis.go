package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a list backed queue so several API replicas can share one worker pool
// Producers LPUSH, consumers BRPOP; a per job hash records queue state for a day
type Redis struct {
	client *redis.Client
	prefix string
	poll   time.Duration
}

// NewRedis wraps an open client; prefix namespaces the keys (default "livetakip:sync")
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "livetakip:sync"
	}
	return &Redis{client: client, prefix: prefix, poll: 5 * time.Second}
}

func (q *Redis) listKey() string              { return q.prefix + ":jobs" }
func (q *Redis) stateKey(jobID string) string { return q.prefix + ":job:" + jobID }

// Enqueue implements Queue
func (q *Redis) Enqueue(ctx context.Context, m Message) error {
	if m.Enqueued.IsZero() {
		m.Enqueued = time.Now().UTC()
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, q.listKey(), b)
		p.HSet(ctx, q.stateKey(m.JobID), map[string]any{
			"state":       StateQueued,
			"trigger":     m.Trigger,
			"enqueued_at": m.Enqueued.Unix(),
		})
		p.Expire(ctx, q.stateKey(m.JobID), 24*time.Hour)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis enqueue %s: %w", m.JobID, err)
	}
	return nil
}

// Dequeue implements Queue; it polls BRPOP so ctx cancellation is noticed within one poll interval
func (q *Redis) Dequeue(ctx context.Context) (Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		res, err := q.client.BRPop(ctx, q.poll, q.listKey()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if errors.Is(err, redis.ErrClosed) {
			return Message{}, ErrClosed
		}
		if err != nil {
			if ctx.Err() != nil {
				return Message{}, ctx.Err()
			}
			return Message{}, err
		}
		// res is [key, value]
		var m Message
		if err := json.Unmarshal([]byte(res[1]), &m); err != nil {
			return Message{}, fmt.Errorf("redis dequeue decode: %w", err)
		}
		q.client.HSet(ctx, q.stateKey(m.JobID), "state", StateDequeued, "dequeued_at", time.Now().Unix())
		return m, nil
	}
}

// State returns the recorded queue state for jobID ("" when unknown or expired)
func (q *Redis) State(ctx context.Context, jobID string) (string, error) {
	s, err := q.client.HGet(ctx, q.stateKey(jobID), "state").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return s, err
}

// Close is a no op; the client belongs to the store
func (q *Redis) Close() error { return nil }
