package crawlbus

import (
	"context"
	"reflect"

	crawlerpkg "github.com/wrenware/crawlbus/internal/crawler"
	runtimepkg "github.com/wrenware/crawlbus/internal/runtime"
	configpkg "github.com/wrenware/crawlbus/internal/runtime/config"
	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
	idspkg "github.com/wrenware/crawlbus/internal/runtime/ids"
	jsoncodec "github.com/wrenware/crawlbus/internal/runtime/jsoncodec"
	loggingpkg "github.com/wrenware/crawlbus/internal/runtime/logging"
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
	transportpkg "github.com/wrenware/crawlbus/transport"
)

type (
	Config              = configpkg.Config
	Service             = runtimepkg.Service
	ServiceDependencies = runtimepkg.ServiceDependencies

	HandlerRegistration       = runtimepkg.HandlerRegistration
	TypedRegistration[T any]  = runtimepkg.TypedRegistration[T]
	HandlerFunc               = runtimepkg.HandlerFunc
	HandlerDescriptor         = runtimepkg.HandlerDescriptor
	DescriptorOption          = runtimepkg.DescriptorOption
	Envelope                  = runtimepkg.Envelope
	HandlersLocator           = runtimepkg.HandlersLocator
	Bus                       = runtimepkg.Bus
	BusOption                 = runtimepkg.BusOption
	UnprocessableMessageError = runtimepkg.UnprocessableMessageError

	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration
	RetryMiddlewareConfig  = runtimepkg.RetryMiddlewareConfig

	Producer = runtimepkg.Producer

	Metadata = metadatapkg.Metadata

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	HandlerInfo  = runtimepkg.HandlerInfo
	HandlerStats = runtimepkg.HandlerStats

	// Dispatch lifecycle hooks
	DispatchInfo  = runtimepkg.DispatchInfo
	DispatchHooks = runtimepkg.DispatchHooks

	// Transport registry
	Transport             = transportpkg.Transport
	TransportBuilder      = transportpkg.Builder
	TransportConfig       = transportpkg.Config
	TransportRegistry     = transportpkg.Registry
	TransportCapabilities = transportpkg.Capabilities

	// HTML crawling
	Crawler = crawlerpkg.Crawler
)

var (
	NewService     = runtimepkg.NewService
	TryNewService  = runtimepkg.TryNewService
	ValidateConfig = configpkg.ValidateConfig

	RegisterHandler = runtimepkg.RegisterHandler

	DefaultMiddlewares      = runtimepkg.DefaultMiddlewares
	CorrelationIDMiddleware = runtimepkg.CorrelationIDMiddleware
	LogMessagesMiddleware   = runtimepkg.LogMessagesMiddleware
	TracerMiddleware        = runtimepkg.TracerMiddleware
	MetricsMiddleware       = runtimepkg.MetricsMiddleware
	RetryMiddleware         = runtimepkg.RetryMiddleware
	PoisonQueueMiddleware   = runtimepkg.PoisonQueueMiddleware
	RecovererMiddleware     = runtimepkg.RecovererMiddleware

	// Dispatch lifecycle hooks
	LoggingHooks  = runtimepkg.LoggingHooks
	MetricsHooks  = runtimepkg.MetricsHooks
	AlertingHooks = runtimepkg.AlertingHooks

	// Direct locator bindings for advanced use. Most callers should go
	// through RegisterHandler or RegisterTypedHandler instead.
	NewHandlersLocator   = runtimepkg.NewHandlersLocator
	NewBus               = runtimepkg.NewBus
	NewEnvelope          = runtimepkg.NewEnvelope
	NewHandlerDescriptor = runtimepkg.NewHandlerDescriptor
	WithName             = runtimepkg.WithName
	WithOriginTransport  = runtimepkg.WithOriginTransport
	WithDispatchHooks    = runtimepkg.WithDispatchHooks

	// Publishing
	NewTransportMessage = runtimepkg.NewTransportMessage
	Publish             = runtimepkg.Publish
	SchemaName          = runtimepkg.SchemaName

	// Transport registry
	// Import individual transports via: _ "github.com/wrenware/crawlbus/transport/kafka"
	DefaultTransportRegistry = transportpkg.DefaultRegistry
	RegisterTransport        = transportpkg.Register
	BuildTransport           = transportpkg.Build
	GetCapabilities          = transportpkg.GetCapabilities

	// HTML crawling
	NewCrawler      = crawlerpkg.New
	ParseHTML       = crawlerpkg.Parse
	ParseHTMLString = crawlerpkg.ParseString
	RelativizeXPath = crawlerpkg.Relativize
	ErrInvalidXPath = crawlerpkg.ErrInvalidExpression

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrServiceRequired     = errspkg.ErrServiceRequired
	ErrConfigRequired      = errspkg.ErrConfigRequired
	ErrHandlerRequired     = errspkg.ErrHandlerRequired
	ErrHandlerNameRequired = errspkg.ErrHandlerNameRequired
	ErrTypeKeyRequired     = errspkg.ErrTypeKeyRequired
	ErrTopicRequired       = errspkg.ErrTopicRequired
	ErrMessageRequired     = errspkg.ErrMessageRequired
	ErrPublisherRequired   = errspkg.ErrPublisherRequired
	ErrSchemaUnknown       = errspkg.ErrSchemaUnknown

	NewSlogServiceLogger = loggingpkg.NewSlogServiceLogger

	NewMetadata = metadatapkg.New

	NewULID = idspkg.NewULID
)

// Metadata keys - use these constants for standard metadata fields.
const (
	MetadataKeySchema        = metadatapkg.KeySchema
	MetadataKeyCorrelationID = metadatapkg.KeyCorrelationID
	MetadataKeyReceivedFrom  = metadatapkg.KeyReceivedFrom
	MetadataKeySourceURL     = metadatapkg.KeySourceURL
)

func RegisterTypedHandler[T any](svc *Service, cfg TypedRegistration[T]) error {
	return runtimepkg.RegisterTypedHandler(svc, cfg)
}

// BindHandler binds a typed handler directly on a locator, bypassing topic
// subscription and schema registration. It is the low-level counterpart of
// RegisterTypedHandler.
func BindHandler[T any](l *HandlersLocator, fn func(ctx context.Context, msg T) error, opts ...DescriptorOption) (*HandlerDescriptor, error) {
	return runtimepkg.BindHandler(l, fn, opts...)
}

// KeyOf returns the locator binding key for T.
func KeyOf[T any]() reflect.Type {
	return runtimepkg.KeyOf[T]()
}
