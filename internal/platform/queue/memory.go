package queue

import (
	"context"
	"sync"
	"time"
)

// Memory is an in process queue backed by a buffered channel
type Memory struct {
	ch     chan Message
	done   chan struct{}
	closer sync.Once
}

// NewMemory returns a queue holding up to size messages before Enqueue blocks
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 64
	}
	return &Memory{ch: make(chan Message, size), done: make(chan struct{})}
}

// Enqueue implements Queue
func (q *Memory) Enqueue(ctx context.Context, m Message) error {
	if m.Enqueued.IsZero() {
		m.Enqueued = time.Now().UTC()
	}
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- m:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue implements Queue
func (q *Memory) Dequeue(ctx context.Context) (Message, error) {
	select {
	case m := <-q.ch:
		return m, nil
	case <-q.done:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Len reports buffered messages
func (q *Memory) Len() int { return len(q.ch) }

// Close wakes every blocked caller with ErrClosed; buffered messages are dropped
func (q *Memory) Close() error {
	q.closer.Do(func() { close(q.done) })
	return nil
}
