package runtime

import (
	"time"

	loggingpkg "github.com/wrenware/crawlbus/internal/runtime/logging"
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
)

// DispatchInfo describes one handler invocation to hooks.
type DispatchInfo struct {
	// HandlerName is the descriptor name of the handler being invoked.
	HandlerName string
	// MessageID is the unique identifier of the message, when known.
	MessageID string
	// ReceivedFrom names the origin transport; empty for local dispatch.
	ReceivedFrom string
	// Metadata carries the envelope metadata.
	Metadata metadatapkg.Metadata
	// StartedAt is when the handler started.
	StartedAt time.Time
	// Duration is how long the handler took (set in OnDone and OnError).
	Duration time.Duration
}

// DispatchHooks defines callbacks around handler execution.
// All hooks are optional; nil hooks are simply not called.
type DispatchHooks struct {
	// OnStart is called before a handler is invoked.
	OnStart func(info DispatchInfo)
	// OnDone is called when a handler returns nil.
	OnDone func(info DispatchInfo)
	// OnError is called when a handler returns an error.
	OnError func(info DispatchInfo, err error)
}

// Merge combines two hook sets; hooks from other run after hooks from h.
func (h DispatchHooks) Merge(other DispatchHooks) DispatchHooks {
	return DispatchHooks{
		OnStart: chainInfoHooks(h.OnStart, other.OnStart),
		OnDone:  chainInfoHooks(h.OnDone, other.OnDone),
		OnError: chainErrorHooks(h.OnError, other.OnError),
	}
}

func chainInfoHooks(a, b func(DispatchInfo)) func(DispatchInfo) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo) {
		a(info)
		b(info)
	}
}

func chainErrorHooks(a, b func(DispatchInfo, error)) func(DispatchInfo, error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo, err error) {
		a(info, err)
		b(info, err)
	}
}

// LoggingHooks returns hooks that log handler lifecycle events.
func LoggingHooks(logger loggingpkg.ServiceLogger) DispatchHooks {
	return DispatchHooks{
		OnStart: func(info DispatchInfo) {
			logger.Debug("Handler started", loggingpkg.LogFields{
				"handler":       info.HandlerName,
				"message_id":    info.MessageID,
				"received_from": info.ReceivedFrom,
			})
		},
		OnDone: func(info DispatchInfo) {
			logger.Info("Handler completed", loggingpkg.LogFields{
				"handler":     info.HandlerName,
				"message_id":  info.MessageID,
				"duration_ms": info.Duration.Milliseconds(),
			})
		},
		OnError: func(info DispatchInfo, err error) {
			logger.Error("Handler failed", err, loggingpkg.LogFields{
				"handler":       info.HandlerName,
				"message_id":    info.MessageID,
				"received_from": info.ReceivedFrom,
				"duration_ms":   info.Duration.Milliseconds(),
			})
		},
	}
}

// MetricsHooks returns hooks that forward handler outcomes to counters, for
// example Prometheus counter vectors keyed by handler name.
func MetricsHooks(onStart, onDone, onError func(handlerName string)) DispatchHooks {
	return DispatchHooks{
		OnStart: func(info DispatchInfo) {
			if onStart != nil {
				onStart(info.HandlerName)
			}
		},
		OnDone: func(info DispatchInfo) {
			if onDone != nil {
				onDone(info.HandlerName)
			}
		},
		OnError: func(info DispatchInfo, err error) {
			if onError != nil {
				onError(info.HandlerName)
			}
		},
	}
}

// AlertingHooks returns hooks that trigger the supplied alert on errors.
func AlertingHooks(alertFunc func(info DispatchInfo, err error)) DispatchHooks {
	return DispatchHooks{OnError: alertFunc}
}
