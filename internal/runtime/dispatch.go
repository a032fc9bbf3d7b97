package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
	loggingpkg "github.com/wrenware/crawlbus/internal/runtime/logging"
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
)

// Bus dispatches envelopes to every eligible handler resolved by its locator.
// A dispatch with zero resolved handlers is not an error.
type Bus struct {
	locator *HandlersLocator
	logger  loggingpkg.ServiceLogger
	hooks   DispatchHooks

	statsMu sync.RWMutex
	stats   map[string]*HandlerStats
}

// BusOption customises a Bus at construction time.
type BusOption func(*Bus)

// WithDispatchHooks attaches lifecycle hooks to every handler invocation.
func WithDispatchHooks(hooks DispatchHooks) BusOption {
	return func(b *Bus) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// NewBus builds a dispatch bus over the given locator.
func NewBus(locator *HandlersLocator, logger loggingpkg.ServiceLogger, opts ...BusOption) *Bus {
	if locator == nil {
		locator = NewHandlersLocator()
	}
	if logger == nil {
		logger = loggingpkg.Nop()
	}
	b := &Bus{
		locator: locator,
		logger:  logger,
		stats:   make(map[string]*HandlerStats),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Locator exposes the bus locator for binding handlers.
func (b *Bus) Locator() *HandlersLocator {
	return b.locator
}

// Dispatch resolves the envelope's handlers and invokes each in order.
// Handler errors do not stop later handlers; they are joined into the
// returned error.
func (b *Bus) Dispatch(ctx context.Context, env *Envelope) error {
	if env == nil || env.Message() == nil {
		return errspkg.ErrMessageRequired
	}

	receivedFrom, _ := env.ReceivedFrom()
	messageID := env.Metadata().Get(metadatapkg.KeyCorrelationID)

	var errs []error
	handled := 0
	for d := range b.locator.Resolve(env) {
		handled++

		info := DispatchInfo{
			HandlerName:  d.Name(),
			MessageID:    messageID,
			ReceivedFrom: receivedFrom,
			Metadata:     env.Metadata(),
			StartedAt:    time.Now(),
		}
		if b.hooks.OnStart != nil {
			b.hooks.OnStart(info)
		}

		err := d.Handle(ctx, env)
		info.Duration = time.Since(info.StartedAt)
		b.statsFor(d.Name()).record(info.Duration, err)

		if err != nil {
			if b.hooks.OnError != nil {
				b.hooks.OnError(info, err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		if b.hooks.OnDone != nil {
			b.hooks.OnDone(info)
		}
	}

	if handled == 0 {
		b.logger.Debug("No handlers resolved for message", loggingpkg.LogFields{
			"message_type":  fmt.Sprintf("%T", env.Message()),
			"received_from": receivedFrom,
		})
	}

	return errors.Join(errs...)
}

// DispatchMessage wraps a bare message in an envelope and dispatches it
// locally, without an origin transport.
func (b *Bus) DispatchMessage(ctx context.Context, msg any) error {
	if msg == nil {
		return errspkg.ErrMessageRequired
	}
	return b.Dispatch(ctx, NewEnvelope(msg))
}

func (b *Bus) statsFor(name string) *HandlerStats {
	b.statsMu.RLock()
	stats, ok := b.stats[name]
	b.statsMu.RUnlock()
	if ok {
		return stats
	}

	b.statsMu.Lock()
	defer b.statsMu.Unlock()
	if stats, ok = b.stats[name]; ok {
		return stats
	}
	stats = newHandlerStats()
	b.stats[name] = stats
	return stats
}

// Stats returns the live statistics for a handler name, or nil when the
// handler has never been invoked.
func (b *Bus) Stats(name string) *HandlerStats {
	b.statsMu.RLock()
	defer b.statsMu.RUnlock()
	return b.stats[name]
}
