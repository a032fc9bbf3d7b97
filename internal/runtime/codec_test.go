package runtime

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestSchemaName(t *testing.T) {
	if got := SchemaName(pageFetched{}); !strings.HasSuffix(got, "pageFetched") {
		t.Fatalf("unexpected schema name: %q", got)
	}
	if got := SchemaName(&pageFetched{}); !strings.HasPrefix(got, "*") {
		t.Fatalf("pointer schema name should carry the pointer marker: %q", got)
	}
}

func TestEncodeDecode_JSON(t *testing.T) {
	msg := &pageFetched{URL: "https://example.com"}
	payload, err := encodeMessage(msg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeMessage(payload, func() any { return &pageFetched{} })
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(*pageFetched)
	if !ok {
		t.Fatalf("unexpected decoded type %T", decoded)
	}
	if got.URL != msg.URL {
		t.Fatalf("roundtrip mismatch: %q", got.URL)
	}
}

func TestEncodeDecode_Proto(t *testing.T) {
	value, err := structpb.NewStruct(map[string]any{"url": "https://example.com"})
	if err != nil {
		t.Fatalf("structpb failed: %v", err)
	}

	payload, err := encodeMessage(value)
	if err != nil {
		t.Fatalf("proto encode failed: %v", err)
	}

	decoded, err := decodeMessage(payload, func() any { return &structpb.Struct{} })
	if err != nil {
		t.Fatalf("proto decode failed: %v", err)
	}
	got := decoded.(*structpb.Struct)
	if got.Fields["url"].GetStringValue() != "https://example.com" {
		t.Fatalf("proto roundtrip mismatch: %v", got)
	}
}

func TestDecodeMessage_MalformedPayload(t *testing.T) {
	if _, err := decodeMessage([]byte(`{"url":`), func() any { return &pageFetched{} }); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}
