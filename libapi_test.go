package crawlbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type exportedEvent struct {
	Name string `json:"name"`
}

func TestHandlerExportsPropagateErrors(t *testing.T) {
	if err := RegisterTypedHandler[*exportedEvent](nil, TypedRegistration[*exportedEvent]{}); !errors.Is(err, ErrServiceRequired) {
		t.Fatalf("expected service required error, got %v", err)
	}

	if err := RegisterHandler(nil, HandlerRegistration{}); !errors.Is(err, ErrServiceRequired) {
		t.Fatalf("expected service required error, got %v", err)
	}
}

func TestLocatorExports(t *testing.T) {
	locator := NewHandlersLocator()

	seen := false
	if _, err := BindHandler(locator, func(ctx context.Context, msg *exportedEvent) error {
		seen = true
		return nil
	}, WithName("exported")); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	bus := NewBus(locator, nil)
	if err := bus.DispatchMessage(context.Background(), &exportedEvent{Name: "x"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !seen {
		t.Fatal("bound handler did not run")
	}

	if KeyOf[*exportedEvent]().String() != SchemaName(&exportedEvent{}) {
		t.Fatal("binding key and schema name diverged")
	}
}

func TestEncodingExportAliases(t *testing.T) {
	payload := map[string]string{"hello": "world"}
	if _, err := Marshal(payload); err != nil {
		t.Fatalf("marshal alias failed: %v", err)
	}
	if _, err := MarshalIndent(payload, "", "  "); err != nil {
		t.Fatalf("marshal indent alias failed: %v", err)
	}
	if err := Unmarshal([]byte(`{"hello":"world"}`), &payload); err != nil {
		t.Fatalf("unmarshal alias failed: %v", err)
	}
}

func TestMetadataExport(t *testing.T) {
	md := NewMetadata("key", "value")
	if md["key"] != "value" {
		t.Fatalf("expected metadata to contain key, got %#v", md)
	}
}

func TestLoggerExports(t *testing.T) {
	logger := NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	logger.Info("boot", LogFields{"component": "test"})
}

func TestCrawlerExports(t *testing.T) {
	doc, err := ParseHTMLString(`<html><body><p class="lede">hello</p></body></html>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	matched, err := doc.FilterXPath(`//p[@class="lede"]`)
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if matched.Len() != 1 || matched.Text() != "hello" {
		t.Fatalf("unexpected selection: %d nodes, text %q", matched.Len(), matched.Text())
	}

	rel, err := RelativizeXPath(`//p[@class="lede"]`)
	if err != nil {
		t.Fatalf("relativize failed: %v", err)
	}
	if !strings.HasPrefix(rel, "descendant-or-self::") {
		t.Fatalf("expected relative expression, got %q", rel)
	}
}

func TestIDExport(t *testing.T) {
	a, b := NewULID(), NewULID()
	if a == "" || a == b {
		t.Fatalf("expected distinct ULIDs, got %q and %q", a, b)
	}
}

func TestTransportRegistryExports(t *testing.T) {
	if DefaultTransportRegistry == nil {
		t.Fatal("default transport registry missing")
	}
	// The channel transport self-registers when the runtime package loads.
	if !DefaultTransportRegistry.Has("channel") {
		t.Fatal("channel transport not registered")
	}
	if caps := GetCapabilities("channel"); caps.Name != "channel" {
		t.Fatalf("unexpected capabilities: %+v", caps)
	}
}
