package runtime

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/wrenware/crawlbus/internal/runtime/errors"
	idspkg "github.com/wrenware/crawlbus/internal/runtime/ids"
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
)

// Producer emits messages onto a transport topic.
type Producer interface {
	Publish(ctx context.Context, topic string, msg any, md metadatapkg.Metadata) error
}

// NewTransportMessage converts a message into a Watermill message carrying the
// standard crawlbus metadata: schema name for decoding on the consumer side
// and a correlation ID for tracing.
func NewTransportMessage(msg any, md metadatapkg.Metadata) (*message.Message, error) {
	if msg == nil {
		return nil, errspkg.ErrMessageRequired
	}

	payload, err := encodeMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message payload: %w", err)
	}

	wm := message.NewMessage(idspkg.NewULID(), payload)
	wm.Metadata = metadatapkg.ToWatermill(md)
	wm.Metadata[metadatapkg.KeySchema] = SchemaName(msg)
	if _, ok := wm.Metadata[metadatapkg.KeyCorrelationID]; !ok {
		wm.Metadata[metadatapkg.KeyCorrelationID] = idspkg.NewULID()
	}
	return wm, nil
}

// Publish encodes the message and publishes it to the provided topic.
func Publish(ctx context.Context, publisher message.Publisher, topic string, msg any, md metadatapkg.Metadata) error {
	if publisher == nil {
		return errspkg.ErrPublisherRequired
	}
	if topic == "" {
		return errspkg.ErrTopicRequired
	}

	wm, err := NewTransportMessage(msg, md)
	if err != nil {
		return err
	}

	if ctx != nil {
		wm.SetContext(ctx)
	}

	return publisher.Publish(topic, wm)
}

// Publish emits the message using the Service publisher so callers can emit
// messages without touching the Watermill APIs directly.
func (s *Service) Publish(ctx context.Context, topic string, msg any, md metadatapkg.Metadata) error {
	if s == nil {
		return errspkg.ErrServiceRequired
	}
	return Publish(ctx, s.publisher, topic, msg, md)
}
