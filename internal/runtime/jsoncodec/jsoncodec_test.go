package jsoncodec

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sample{Name: "page", Count: 3}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestEncodeDecodeStreams(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample{Name: "feed"}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var out sample
	if err := Decode(strings.NewReader(buf.String()), &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Name != "feed" {
		t.Fatalf("expected decoded name %q, got %q", "feed", out.Name)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]byte(`{"ok":true}`)) {
		t.Fatal("expected valid JSON to be accepted")
	}
	if Valid([]byte(`{"ok":`)) {
		t.Fatal("expected truncated JSON to be rejected")
	}
}
