package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBusSize is the buffer size of a Bus created with size <= 0
const DefaultBusSize = 16

// Bus is the single shared event channel every screen can publish into
// without holding a reference to the navigator. It is how a logout is
// reachable from anywhere.
type Bus struct {
	events chan Event
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus buffering up to size events
func NewBus(size int, logger zerolog.Logger) *Bus {
	if size <= 0 {
		size = DefaultBusSize
	}
	return &Bus{
		events: make(chan Event, size),
		logger: logger.With().Str("component", "bus").Logger(),
	}
}

// Publish enqueues e without blocking. It reports whether the event was
// accepted; events published to a full or closed bus are dropped.
func (b *Bus) Publish(e Event) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false
	}

	select {
	case b.events <- e:
		return true
	default:
		b.logger.Warn().Str("event", e.String()).Msg("Event bus full, dropping event")
		return false
	}
}

// Events returns the receive side of the bus. The channel is closed by Close.
func (b *Bus) Events() <-chan Event {
	return b.events
}

// Close stops the bus. Further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}

// Handler applies a single event, typically Navigator.Handle.
type Handler func(Event) error

// Run delivers events to handle on the calling goroutine until ctx is done
// or the bus is closed. Handler errors are logged and do not stop the loop.
func (b *Bus) Run(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-b.events:
			if !ok {
				return nil
			}
			if err := handle(e); err != nil {
				b.logger.Error().Err(err).Str("event", e.String()).Msg("Failed to handle event")
			}
		}
	}
}
