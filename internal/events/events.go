package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("events: publisher closed")

// Event types emitted by the usage statistics service.
const (
	TypeMessageSent     = "message.sent"
	TypeMessagesRemoved = "message.removed"
	TypeChannelJoined   = "channel.joined"
	TypeChannelCreated  = "channel.created"
	TypeDmJoined        = "dm.joined"
	TypeDmsChanged      = "dm.changed"
)

// Event is a single usage counter change.
type Event struct {
	Type      string `json:"type"`
	UserID    int    `json:"u_id,omitempty"`
	Count     int    `json:"count"`
	TimeStamp int64  `json:"time_stamp"`
}

// Publisher delivers events to an outside consumer.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Async hands events to a background goroutine so callers holding the store lock never
// wait on the network. Events are dropped when the buffer is full.
type Async struct {
	next  Publisher
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Publisher, buffer int) *Async {
	a := &Async{
		next:  next,
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *Async) Publish(_ context.Context, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- event:
	default:
		slog.Warn("events: Queue full, dropping event", "type", event.Type)
	}
	return nil
}

func (a *Async) loop() {
	defer close(a.done)
	for event := range a.queue {
		if err := a.next.Publish(context.Background(), event); err != nil {
			slog.Warn("events: Failed to publish event", "type", event.Type, "error", err)
		}
	}
}

// Close flushes queued events and stops the background goroutine.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()
	<-a.done
}
