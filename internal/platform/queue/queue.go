// Package queue carries job ids from producers (HTTP, cron) to the worker
package queue

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned once the queue has been closed
var ErrClosed = errors.New("queue closed")

// Recorded states of a durable queue
const (
	StateQueued   = "queued"
	StateDequeued = "dequeued"
)

// Message is one unit of queued work
type Message struct {
	JobID    string    `json:"job_id"`
	Trigger  string    `json:"trigger"`
	Enqueued time.Time `json:"enqueued_at"`
}

// Queue is a FIFO of job messages
type Queue interface {
	// Enqueue blocks until the message is accepted or ctx is done
	Enqueue(ctx context.Context, m Message) error
	// Dequeue blocks until a message arrives, ctx is done or the queue is closed
	Dequeue(ctx context.Context) (Message, error)
	Close() error
}
