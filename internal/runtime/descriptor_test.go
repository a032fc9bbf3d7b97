package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func namedTestHandler(ctx context.Context, env *Envelope) error { return nil }

func TestNewHandlerDescriptor_SynthesizesNameFromSymbol(t *testing.T) {
	d, err := NewHandlerDescriptor(namedTestHandler)
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	if !strings.Contains(d.Name(), "namedTestHandler") {
		t.Fatalf("expected symbol-derived name, got %q", d.Name())
	}
}

func TestNewHandlerDescriptor_SameFunctionSameName(t *testing.T) {
	a, err := NewHandlerDescriptor(namedTestHandler)
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	b, err := NewHandlerDescriptor(namedTestHandler)
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	if a.Name() != b.Name() {
		t.Fatalf("same function must synthesize the same name: %q vs %q", a.Name(), b.Name())
	}
}

func TestNewHandlerDescriptor_ExplicitNameWins(t *testing.T) {
	d, err := NewHandlerDescriptor(namedTestHandler, WithName("explicit"))
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	if d.Name() != "explicit" {
		t.Fatalf("unexpected name: %q", d.Name())
	}
}

func TestNewHandlerDescriptor_NilHandler(t *testing.T) {
	if _, err := NewHandlerDescriptor(nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestHandlerDescriptor_OriginTransport(t *testing.T) {
	d, err := NewHandlerDescriptor(namedTestHandler, WithOriginTransport("kafka"))
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	origin, ok := d.OriginTransport()
	if !ok || origin != "kafka" {
		t.Fatalf("unexpected origin constraint: %q %v", origin, ok)
	}

	unconstrained, err := NewHandlerDescriptor(namedTestHandler)
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	if _, ok := unconstrained.OriginTransport(); ok {
		t.Fatal("expected no origin constraint")
	}
}

func TestHandlerDescriptor_HandleForwardsError(t *testing.T) {
	want := errors.New("boom")
	d, err := NewHandlerDescriptor(func(ctx context.Context, env *Envelope) error {
		return want
	}, WithName("failing"))
	if err != nil {
		t.Fatalf("descriptor failed: %v", err)
	}
	if got := d.Handle(context.Background(), NewEnvelope(pageFetched{})); !errors.Is(got, want) {
		t.Fatalf("unexpected handle error: %v", got)
	}
}
