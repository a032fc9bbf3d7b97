package transport

// Capabilities describes the features supported by a transport backend. The
// dispatch layer uses it to decide whether delivery guarantees have to be
// emulated at the application level.
type Capabilities struct {
	// SupportsDelay indicates the transport can natively delay delivery.
	SupportsDelay bool

	// SupportsNativeDLQ indicates built-in dead letter queue support. When
	// false, crawlbus routes poison messages at the application level.
	SupportsNativeDLQ bool

	// SupportsOrdering indicates messages are delivered in publish order.
	SupportsOrdering bool

	// SupportsAck indicates explicit message acknowledgment.
	SupportsAck bool

	// SupportsNack indicates negative acknowledgment (redelivery).
	SupportsNack bool

	// MaxMessageSize is the maximum message size in bytes (0 = unknown).
	MaxMessageSize int64

	// Name is the transport name, also used as the dispatch origin.
	Name string
}

// RequiresDelayEmulation reports whether delayed delivery must be emulated
// at the application level.
func (c Capabilities) RequiresDelayEmulation() bool {
	return !c.SupportsDelay
}

// RequiresDLQEmulation reports whether poison-queue routing must happen at
// the application level.
func (c Capabilities) RequiresDLQEmulation() bool {
	return !c.SupportsNativeDLQ
}

// SupportsReliableDelivery reports at-least-once semantics (ack + nack).
func (c Capabilities) SupportsReliableDelivery() bool {
	return c.SupportsAck && c.SupportsNack
}

// Predefined capability sets for the built-in transports.
var (
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
	}

	KafkaCapabilities = Capabilities{
		Name:             "kafka",
		SupportsOrdering: true,
		SupportsAck:      true,
		MaxMessageSize:   1048576, // broker default
	}

	RabbitMQCapabilities = Capabilities{
		Name:              "rabbitmq",
		SupportsDelay:     true,
		SupportsNativeDLQ: true,
		SupportsOrdering:  true,
		SupportsAck:       true,
		SupportsNack:      true,
	}

	NATSCapabilities = Capabilities{
		Name: "nats",
	}

	HTTPCapabilities = Capabilities{
		Name: "http",
	}

	AWSCapabilities = Capabilities{
		Name:              "aws",
		SupportsDelay:     true,
		SupportsNativeDLQ: true,
		SupportsAck:       true,
		SupportsNack:      true,
		MaxMessageSize:    262144, // SQS limit
	}
)
