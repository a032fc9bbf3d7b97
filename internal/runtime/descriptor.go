package runtime

import (
	"context"
	"fmt"
	"reflect"
	goruntime "runtime"

	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
)

// HandlerFunc processes a dispatched envelope.
type HandlerFunc func(ctx context.Context, env *Envelope) error

// HandlerDescriptor wraps a handler function with a stable name and an
// optional origin-transport constraint. The name is the handler's identity:
// a descriptor reachable through several type keys is dispatched at most once
// per message.
type HandlerDescriptor struct {
	name            string
	originTransport string
	fn              HandlerFunc
}

// DescriptorOption customises a HandlerDescriptor at construction time.
type DescriptorOption func(*HandlerDescriptor)

// WithName overrides the synthesized descriptor name.
func WithName(name string) DescriptorOption {
	return func(d *HandlerDescriptor) {
		d.name = name
	}
}

// WithOriginTransport restricts the descriptor to messages received from the
// named transport. Locally dispatched messages are never pruned by this
// constraint.
func WithOriginTransport(transportName string) DescriptorOption {
	return func(d *HandlerDescriptor) {
		d.originTransport = transportName
	}
}

// NewHandlerDescriptor normalizes a bare handler function into a descriptor.
// When no name is supplied, one is synthesized from the function's symbol so
// that the same function registered twice de-duplicates to a single dispatch.
func NewHandlerDescriptor(fn HandlerFunc, opts ...DescriptorOption) (*HandlerDescriptor, error) {
	if fn == nil {
		return nil, errspkg.ErrHandlerRequired
	}

	d := &HandlerDescriptor{fn: fn}
	for _, opt := range opts {
		opt(d)
	}
	if d.name == "" {
		d.name = funcName(fn)
	}
	if d.name == "" {
		return nil, errspkg.ErrHandlerNameRequired
	}
	return d, nil
}

// Name returns the descriptor's de-duplication identity.
func (d *HandlerDescriptor) Name() string {
	return d.name
}

// OriginTransport returns the origin constraint, if any.
func (d *HandlerDescriptor) OriginTransport() (string, bool) {
	return d.originTransport, d.originTransport != ""
}

// Handle invokes the wrapped handler.
func (d *HandlerDescriptor) Handle(ctx context.Context, env *Envelope) error {
	return d.fn(ctx, env)
}

// funcName resolves a stable symbol name for a function value.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	if rf := goruntime.FuncForPC(v.Pointer()); rf != nil {
		return rf.Name()
	}
	return fmt.Sprintf("handler@%#x", v.Pointer())
}
