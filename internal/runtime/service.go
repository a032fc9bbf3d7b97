package runtime

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"

	configpkg "github.com/wrenware/crawlbus/internal/runtime/config"
	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
	loggingpkg "github.com/wrenware/crawlbus/internal/runtime/logging"
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
	"github.com/wrenware/crawlbus/transport"

	// The channel transport is the default and must always be registered.
	_ "github.com/wrenware/crawlbus/transport/channel"
)

var routerRun = func(router *message.Router, ctx context.Context) error {
	return router.Run(ctx)
}

// schemaDecoder turns a raw payload into a typed message.
type schemaDecoder func(payload []byte) (any, error)

// ServiceDependencies holds the optional collaborators that the Service can use.
// Leave fields nil or zero to get the defaults.
type ServiceDependencies struct {
	Hooks                     DispatchHooks            // Merged into the dispatch bus hooks.
	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
	Registry                  *transport.Registry      // Overrides the default transport registry.
}

// Service wires a Watermill router, a transport, and the dispatch bus that
// routes decoded messages to their handlers.
type Service struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router

	locator *HandlersLocator
	bus     *Bus

	schemaRegistry map[string]schemaDecoder
	schemaMu       sync.RWMutex

	subscribedTopics map[string]struct{}
	topicsMu         sync.Mutex

	handlers   []*HandlerInfo
	handlersMu sync.RWMutex

	httpServers   map[int]*http.ServeMux
	httpServersMu sync.Mutex
}

// TryNewService constructs a Service for the supplied configuration. Register
// handlers on the returned Service before calling Start.
func TryNewService(ctx context.Context, conf *configpkg.Config, log loggingpkg.ServiceLogger, deps ServiceDependencies) (*Service, error) {
	if conf == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if conf.Transport == "" {
		conf.Transport = "channel"
	}
	if conf.PoisonQueue == "" {
		conf.PoisonQueue = "crawlbus_poison"
	}
	if log == nil {
		log = loggingpkg.Nop()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	wmLogger := loggingpkg.NewWatermillAdapter(log)
	log.Info("Creating dispatch service",
		loggingpkg.LogFields{
			"transport": conf.Transport,
			"config":    conf,
		})

	s := &Service{
		Conf:             conf,
		Logger:           log,
		locator:          NewHandlersLocator(),
		schemaRegistry:   make(map[string]schemaDecoder),
		subscribedTopics: make(map[string]struct{}),
	}
	s.bus = NewBus(s.locator, log, WithDispatchHooks(deps.Hooks))

	registry := deps.Registry
	if registry == nil {
		registry = transport.DefaultRegistry
	}
	tr, err := registry.Build(ctx, conf, wmLogger)
	if err != nil {
		return nil, err
	}
	s.publisher = tr.Publisher
	s.subscriber = tr.Subscriber

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}
	s.router = router
	s.router.AddPlugin(plugin.SignalsHandler)

	if err := s.registerConfiguredMiddlewares(deps); err != nil {
		return nil, err
	}

	return s, nil
}

// NewService is like TryNewService but panics on construction errors, which
// keeps service main functions short.
func NewService(ctx context.Context, conf *configpkg.Config, log loggingpkg.ServiceLogger, deps ServiceDependencies) *Service {
	s, err := TryNewService(ctx, conf, log, deps)
	if err != nil {
		panic(err)
	}
	return s
}

// Start runs the underlying Watermill router until the provided context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.startHTTPServers()
	return routerRun(s.router, ctx)
}

// Bus exposes the dispatch bus for local dispatch and stats.
func (s *Service) Bus() *Bus {
	return s.bus
}

// Dispatch routes a message through the bus locally, without a transport
// round-trip. Origin-constrained handlers always run on local dispatch.
func (s *Service) Dispatch(ctx context.Context, msg any) error {
	return s.bus.DispatchMessage(ctx, msg)
}

// Locator exposes the handlers locator for advanced bindings, for example
// interface keys or wildcard handlers.
func (s *Service) Locator() *HandlersLocator {
	return s.locator
}

func (s *Service) registerConfiguredMiddlewares(deps ServiceDependencies) error {
	var defaults []MiddlewareRegistration
	if !deps.DisableDefaultMiddlewares {
		defaults = DefaultMiddlewares()
	}
	registrations := make([]MiddlewareRegistration, 0, len(defaults)+len(deps.Middlewares))
	registrations = append(registrations, defaults...)
	registrations = append(registrations, deps.Middlewares...)

	for _, reg := range registrations {
		if err := s.RegisterMiddleware(reg); err != nil {
			name := reg.Name
			if name == "" {
				name = "anonymous_middleware"
			}
			return fmt.Errorf("failed to register middleware %s: %w", name, err)
		}
	}
	return nil
}

// SubscribeTopic attaches the dispatch pipeline to a transport topic. Messages
// arriving on the topic are decoded by schema and dispatched through the bus.
// Subscribing to the same topic twice is a no-op.
func (s *Service) SubscribeTopic(topic string) error {
	if topic == "" {
		return errspkg.ErrTopicRequired
	}

	s.topicsMu.Lock()
	defer s.topicsMu.Unlock()
	if _, ok := s.subscribedTopics[topic]; ok {
		return nil
	}
	s.subscribedTopics[topic] = struct{}{}

	s.router.AddNoPublisherHandler(
		"crawlbus_dispatch_"+topic,
		topic,
		s.subscriber,
		s.dispatchIncoming,
	)
	return nil
}

// dispatchIncoming decodes a transport message and routes it through the bus.
// Unknown schemas and malformed payloads become UnprocessableMessageError so
// the poison queue middleware can divert them instead of retrying forever.
func (s *Service) dispatchIncoming(msg *message.Message) error {
	schema := msg.Metadata[metadatapkg.KeySchema]

	decode, ok := s.schemaFor(schema)
	if !ok {
		return &UnprocessableMessageError{
			payload: string(msg.Payload),
			err:     fmt.Errorf("%w: %q", errspkg.ErrSchemaUnknown, schema),
		}
	}

	decoded, err := decode(msg.Payload)
	if err != nil {
		return &UnprocessableMessageError{
			payload: string(msg.Payload),
			err:     err,
		}
	}

	env := NewEnvelope(decoded).
		WithMetadata(metadatapkg.FromWatermill(msg.Metadata)).
		WithReceivedFrom(s.Conf.Transport)

	return s.bus.Dispatch(msg.Context(), env)
}

func (s *Service) registerSchema(name string, decode schemaDecoder) {
	s.schemaMu.Lock()
	s.schemaRegistry[name] = decode
	s.schemaMu.Unlock()
}

func (s *Service) schemaFor(name string) (schemaDecoder, bool) {
	s.schemaMu.RLock()
	defer s.schemaMu.RUnlock()
	decode, ok := s.schemaRegistry[name]
	return decode, ok
}

// Handlers returns a snapshot of the registered handlers and their stats.
func (s *Service) Handlers() []*HandlerInfo {
	s.handlersMu.RLock()
	defer s.handlersMu.RUnlock()
	out := make([]*HandlerInfo, len(s.handlers))
	copy(out, s.handlers)
	return out
}

// RegisterHTTPHandler exposes an HTTP handler on the given port when the
// service starts. Multiple patterns can share a port.
func (s *Service) RegisterHTTPHandler(port int, pattern string, handler http.Handler) {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	if s.httpServers == nil {
		s.httpServers = make(map[int]*http.ServeMux)
	}

	mux, ok := s.httpServers[port]
	if !ok {
		mux = http.NewServeMux()
		s.httpServers[port] = mux
	}

	mux.Handle(pattern, handler)
}

func (s *Service) startHTTPServers() {
	s.httpServersMu.Lock()
	defer s.httpServersMu.Unlock()

	for port, mux := range s.httpServers {
		addr := fmt.Sprintf(":%d", port)
		s.Logger.Info("Starting HTTP server", loggingpkg.LogFields{"address": addr})
		go func(addr string, handler http.Handler) {
			if err := http.ListenAndServe(addr, handler); err != nil {
				s.Logger.Error("Failed to start HTTP server", err, loggingpkg.LogFields{"address": addr})
			}
		}(addr, mux)
	}
}
