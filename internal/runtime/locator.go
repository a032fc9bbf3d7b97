package runtime

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"sync"

	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
)

// HandlersLocator maps type keys to handler descriptors and resolves the
// ordered, de-duplicated set of handlers eligible to process a message.
//
// Binding is expected to happen during service setup; Resolve treats the
// registry as an immutable snapshot and may be called concurrently once
// binding is done.
type HandlersLocator struct {
	mu            sync.RWMutex
	bindings      map[reflect.Type][]*HandlerDescriptor
	interfaceKeys []reflect.Type
	wildcard      []*HandlerDescriptor
}

// NewHandlersLocator returns an empty locator.
func NewHandlersLocator() *HandlersLocator {
	return &HandlersLocator{
		bindings: make(map[reflect.Type][]*HandlerDescriptor),
	}
}

// Bind registers a descriptor under a type key. The key may be a concrete
// message type, an embedded ("ancestor") struct type, or an interface type.
// Descriptors bound under the same key dispatch in registration order.
func (l *HandlersLocator) Bind(key reflect.Type, d *HandlerDescriptor) error {
	if key == nil {
		return errspkg.ErrTypeKeyRequired
	}
	if d == nil {
		return errspkg.ErrHandlerRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.bindings[key] = append(l.bindings[key], d)
	if key.Kind() == reflect.Interface && !l.hasInterfaceKeyLocked(key) {
		l.interfaceKeys = append(l.interfaceKeys, key)
	}
	return nil
}

// BindFunc normalizes a bare function into a descriptor and binds it.
func (l *HandlersLocator) BindFunc(key reflect.Type, fn HandlerFunc, opts ...DescriptorOption) (*HandlerDescriptor, error) {
	d, err := NewHandlerDescriptor(fn, opts...)
	if err != nil {
		return nil, err
	}
	return d, l.Bind(key, d)
}

// BindWildcard registers a descriptor that is probed for every message, after
// all type-specific bindings.
func (l *HandlersLocator) BindWildcard(d *HandlerDescriptor) error {
	if d == nil {
		return errspkg.ErrHandlerRequired
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wildcard = append(l.wildcard, d)
	return nil
}

func (l *HandlersLocator) hasInterfaceKeyLocked(key reflect.Type) bool {
	for _, existing := range l.interfaceKeys {
		if existing == key {
			return true
		}
	}
	return false
}

// Resolve yields the handlers eligible for the envelope, in probe order: the
// message's own type, its embedded types, bound interfaces it implements,
// then wildcard bindings. A descriptor reachable through several keys is
// yielded once, at its first-encountered position. The sequence is lazy and
// single-use; an empty sequence is a valid outcome.
func (l *HandlersLocator) Resolve(env *Envelope) iter.Seq[*HandlerDescriptor] {
	return func(yield func(*HandlerDescriptor) bool) {
		if env == nil {
			return
		}

		l.mu.RLock()
		defer l.mu.RUnlock()

		seen := make(map[string]struct{})
		msgType := reflect.TypeOf(env.Message())

		for _, key := range typeKeys(msgType, l.interfaceKeys) {
			for _, d := range l.bindings[key] {
				if !yieldEligible(d, env, seen, yield) {
					return
				}
			}
		}
		for _, d := range l.wildcard {
			if !yieldEligible(d, env, seen, yield) {
				return
			}
		}
	}
}

// yieldEligible applies the origin constraint and name de-duplication before
// yielding. It returns false when the consumer stopped the iteration.
func yieldEligible(d *HandlerDescriptor, env *Envelope, seen map[string]struct{}, yield func(*HandlerDescriptor) bool) bool {
	if !shouldHandle(d, env) {
		return true
	}
	if _, dup := seen[d.Name()]; dup {
		return true
	}
	seen[d.Name()] = struct{}{}
	return yield(d)
}

// shouldHandle reports whether the descriptor's origin constraint allows the
// envelope. The constraint only prunes transport-crossing redelivery; local
// dispatch always passes.
func shouldHandle(d *HandlerDescriptor, env *Envelope) bool {
	origin, constrained := d.OriginTransport()
	if !constrained {
		return true
	}
	receivedFrom, crossed := env.ReceivedFrom()
	if !crossed {
		return true
	}
	return receivedFrom == origin
}

// BindHandler is a typed convenience for binding a handler under the message
// type it consumes. The wrapped handler receives the decoded message.
func BindHandler[T any](l *HandlersLocator, fn func(ctx context.Context, msg T) error, opts ...DescriptorOption) (*HandlerDescriptor, error) {
	if fn == nil {
		return nil, errspkg.ErrHandlerRequired
	}

	wrapped := func(ctx context.Context, env *Envelope) error {
		msg, ok := env.Message().(T)
		if !ok {
			return fmt.Errorf("crawlbus: handler expects %T, got %T", msg, env.Message())
		}
		return fn(ctx, msg)
	}

	// default the identity to the typed function's symbol, not the wrapper's
	opts = append([]DescriptorOption{WithName(funcName(fn))}, opts...)
	return l.BindFunc(KeyOf[T](), wrapped, opts...)
}
