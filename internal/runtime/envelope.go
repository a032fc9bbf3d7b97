package runtime

import (
	metadatapkg "github.com/wrenware/crawlbus/internal/runtime/metadata"
)

// Envelope carries a message through dispatch together with its metadata and,
// when the message crossed a transport boundary, the name of the transport it
// arrived on. Envelopes are immutable; the With helpers return copies.
type Envelope struct {
	message      any
	meta         metadatapkg.Metadata
	receivedFrom string
}

// NewEnvelope wraps a message for dispatch. Locally dispatched envelopes carry
// no origin transport.
func NewEnvelope(msg any) *Envelope {
	return &Envelope{message: msg}
}

// Message returns the wrapped message.
func (e *Envelope) Message() any {
	return e.message
}

// Metadata returns the envelope metadata. May be nil.
func (e *Envelope) Metadata() metadatapkg.Metadata {
	return e.meta
}

// WithMetadata returns a copy of the envelope carrying the supplied metadata.
func (e *Envelope) WithMetadata(md metadatapkg.Metadata) *Envelope {
	clone := *e
	clone.meta = md
	return &clone
}

// ReceivedFrom returns the transport the message arrived on. The second
// return value is false for locally dispatched messages.
func (e *Envelope) ReceivedFrom() (string, bool) {
	return e.receivedFrom, e.receivedFrom != ""
}

// WithReceivedFrom returns a copy of the envelope stamped with the origin
// transport name. The stamp is mirrored into the metadata for observability.
func (e *Envelope) WithReceivedFrom(transportName string) *Envelope {
	clone := *e
	clone.receivedFrom = transportName
	clone.meta = e.meta.With(metadatapkg.KeyReceivedFrom, transportName)
	return &clone
}
