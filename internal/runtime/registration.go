package runtime

import (
	"context"
	"reflect"

	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
)

// HandlerRegistration wires an envelope handler to a message type and a
// transport topic. The Message field is a prototype of the consumed message;
// its type becomes both the wire schema and the binding key.
type HandlerRegistration struct {
	Name            string
	Message         any
	Topic           string
	OriginTransport string
	Handler         HandlerFunc
}

// RegisterHandler binds the handler on the service locator, registers the
// message schema for decoding, and subscribes the service to the topic.
func RegisterHandler(svc *Service, cfg HandlerRegistration) error {
	if svc == nil {
		return errspkg.ErrServiceRequired
	}
	if cfg.Handler == nil {
		return errspkg.ErrHandlerRequired
	}
	if cfg.Message == nil {
		return errspkg.ErrMessageRequired
	}
	if cfg.Topic == "" {
		return errspkg.ErrTopicRequired
	}

	msgType := reflect.TypeOf(cfg.Message)

	var opts []DescriptorOption
	if cfg.Name != "" {
		opts = append(opts, WithName(cfg.Name))
	}
	if cfg.OriginTransport != "" {
		opts = append(opts, WithOriginTransport(cfg.OriginTransport))
	}

	d, err := svc.locator.BindFunc(msgType, cfg.Handler, opts...)
	if err != nil {
		return err
	}

	svc.registerSchema(SchemaName(cfg.Message), decoderFor(msgType))
	svc.recordHandler(d)

	return svc.SubscribeTopic(cfg.Topic)
}

// TypedRegistration wires a typed handler to a topic. T is the message type
// the handler consumes, pointer or value.
type TypedRegistration[T any] struct {
	Name            string
	Topic           string
	OriginTransport string
	Handler         func(ctx context.Context, msg T) error
}

// RegisterTypedHandler binds a typed handler on the service locator, registers
// the schema for T, and subscribes the service to the topic. The handler
// receives the decoded message without type assertions on the caller side.
func RegisterTypedHandler[T any](svc *Service, cfg TypedRegistration[T]) error {
	if svc == nil {
		return errspkg.ErrServiceRequired
	}
	if cfg.Handler == nil {
		return errspkg.ErrHandlerRequired
	}
	if cfg.Topic == "" {
		return errspkg.ErrTopicRequired
	}

	var opts []DescriptorOption
	if cfg.Name != "" {
		opts = append(opts, WithName(cfg.Name))
	}
	if cfg.OriginTransport != "" {
		opts = append(opts, WithOriginTransport(cfg.OriginTransport))
	}

	d, err := BindHandler(svc.locator, cfg.Handler, opts...)
	if err != nil {
		return err
	}

	msgType := KeyOf[T]()
	svc.registerSchema(msgType.String(), decoderFor(msgType))
	svc.recordHandler(d)

	return svc.SubscribeTopic(cfg.Topic)
}

// decoderFor builds a schema decoder producing values of exactly msgType, so
// decoded messages probe the same binding key the handler was bound under.
func decoderFor(msgType reflect.Type) schemaDecoder {
	if msgType.Kind() == reflect.Pointer {
		elem := msgType.Elem()
		return func(payload []byte) (any, error) {
			return decodeMessage(payload, func() any {
				return reflect.New(elem).Interface()
			})
		}
	}
	return func(payload []byte) (any, error) {
		decoded, err := decodeMessage(payload, func() any {
			return reflect.New(msgType).Interface()
		})
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(decoded).Elem().Interface(), nil
	}
}

func (s *Service) recordHandler(d *HandlerDescriptor) {
	origin, _ := d.OriginTransport()
	info := &HandlerInfo{
		Name:            d.Name(),
		OriginTransport: origin,
		Stats:           s.bus.statsFor(d.Name()),
	}

	s.handlersMu.Lock()
	s.handlers = append(s.handlers, info)
	s.handlersMu.Unlock()
}
