package runtime

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	jsoncodec "github.com/wrenware/crawlbus/internal/runtime/jsoncodec"
)

// SchemaName returns the wire schema identifier for a message type.
func SchemaName(msg any) string {
	return fmt.Sprintf("%T", msg)
}

// encodeMessage serialises a message for publishing. Protobuf messages use
// protojson so payloads stay readable across transports; everything else is
// plain JSON.
func encodeMessage(msg any) ([]byte, error) {
	if pm, ok := msg.(proto.Message); ok {
		return protojson.Marshal(pm)
	}
	return jsoncodec.Marshal(msg)
}

// decodeMessage deserialises a payload into a fresh message produced by the
// registered factory.
func decodeMessage(payload []byte, factory func() any) (any, error) {
	msg := factory()
	if pm, ok := msg.(proto.Message); ok {
		if err := protojson.Unmarshal(payload, pm); err != nil {
			return nil, err
		}
		return pm, nil
	}
	if err := jsoncodec.Unmarshal(payload, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
