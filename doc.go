// Package crawlbus is a small layer on top of Watermill that wires routers,
// publishers, subscribers, and middleware for type-dispatched content
// processing pipelines. It reads the target transport (Kafka, RabbitMQ,
// AWS SNS/SQS, NATS, HTTP, or Go Channels) from Config, bootstraps the
// Watermill router, and registers the default middleware chain for
// correlation IDs, logging, tracing, retries, and poison queue forwarding.
//
// Service hosts the router and exposes typed helpers: RegisterTypedHandler
// binds a handler to a message type and topic in one call, while
// Service.Publish lets HTTP/RPC handlers emit events without touching
// low-level Watermill APIs. A minimal setup therefore involves filling
// Config, creating a Service, registering handlers, and calling Start.
//
// # Dispatch
//
// Incoming messages are routed by type, not by topic alone. A handler bound
// to a concrete struct also receives messages whose type embeds that struct,
// and handlers can be bound to interfaces or registered as wildcards that
// see every message. Handlers sharing a name run at most once per dispatch,
// and a handler can be pinned to a transport so it only fires for messages
// that actually travelled over it.
//
// # Transports
//
// Crawlbus supports 6 message transports out of the box:
//   - channel: In-memory Go channels for testing
//   - kafka: High-throughput streaming with consumer groups
//   - rabbitmq: AMQP-based durable queues
//   - aws: AWS SNS/SQS with LocalStack support
//   - nats: High-performance messaging
//   - http: Request/response messaging
//
// # Crawling
//
// The Crawler type wraps an HTML document and filters it with XPath
// expressions. Absolute expressions are rewritten on the fly so that union
// branches evaluate relative to the current selection, which lets the same
// expression work against a full document and against a fragment.
//
// # Dispatch Hooks
//
// DispatchHooks provides OnStart, OnDone, and OnError callbacks for custom
// logging, metrics collection, and alerting around handler execution.
package crawlbus
