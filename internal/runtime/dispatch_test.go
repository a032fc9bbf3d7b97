package runtime

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestBus_DispatchInvokesAllEligibleHandlers(t *testing.T) {
	l := NewHandlersLocator()
	var order []string
	bindRecorder(t, l, KeyOf[pageFetched](), "first", &order, nil)
	bindRecorder(t, l, KeyOf[timedEvent](), "second", &order, nil)

	bus := NewBus(l, newTestLogger())
	if err := bus.DispatchMessage(context.Background(), pageFetched{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected invocation order: %v", order)
	}
}

func TestBus_HandlerErrorDoesNotStopLaterHandlers(t *testing.T) {
	l := NewHandlersLocator()
	failure := errors.New("handler failed")
	var order []string
	bindRecorder(t, l, KeyOf[pageFetched](), "failing", &order, failure)
	bindRecorder(t, l, KeyOf[pageFetched](), "succeeding", &order, nil)

	bus := NewBus(l, newTestLogger())
	err := bus.DispatchMessage(context.Background(), pageFetched{})

	if len(order) != 2 {
		t.Fatalf("later handler skipped after error: %v", order)
	}
	if !errors.Is(err, failure) {
		t.Fatalf("joined error should wrap handler failure, got %v", err)
	}
}

func TestBus_ZeroHandlersIsNotAnError(t *testing.T) {
	bus := NewBus(NewHandlersLocator(), newTestLogger())
	if err := bus.DispatchMessage(context.Background(), pageFetched{}); err != nil {
		t.Fatalf("zero handlers must not error: %v", err)
	}
}

func TestBus_NilMessage(t *testing.T) {
	bus := NewBus(NewHandlersLocator(), newTestLogger())
	if err := bus.DispatchMessage(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil message")
	}
	if err := bus.Dispatch(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil envelope")
	}
}

func TestBus_HooksObserveLifecycle(t *testing.T) {
	l := NewHandlersLocator()
	failure := errors.New("boom")
	var order []string
	bindRecorder(t, l, KeyOf[pageFetched](), "ok", &order, nil)
	bindRecorder(t, l, KeyOf[pageFetched](), "bad", &order, failure)

	var started, done, failed []string
	hooks := DispatchHooks{
		OnStart: func(info DispatchInfo) { started = append(started, info.HandlerName) },
		OnDone:  func(info DispatchInfo) { done = append(done, info.HandlerName) },
		OnError: func(info DispatchInfo, err error) { failed = append(failed, info.HandlerName) },
	}

	bus := NewBus(l, newTestLogger(), WithDispatchHooks(hooks))
	_ = bus.DispatchMessage(context.Background(), pageFetched{})

	if len(started) != 2 {
		t.Fatalf("OnStart calls: %v", started)
	}
	if len(done) != 1 || done[0] != "ok" {
		t.Fatalf("OnDone calls: %v", done)
	}
	if len(failed) != 1 || failed[0] != "bad" {
		t.Fatalf("OnError calls: %v", failed)
	}
}

func TestBus_StatsTrackOutcomes(t *testing.T) {
	l := NewHandlersLocator()
	failure := errors.New("boom")
	var order []string
	bindRecorder(t, l, KeyOf[pageFetched](), "tracked", &order, failure)

	bus := NewBus(l, newTestLogger())
	_ = bus.DispatchMessage(context.Background(), pageFetched{})
	_ = bus.DispatchMessage(context.Background(), pageFetched{})

	stats := bus.Stats("tracked")
	if stats == nil {
		t.Fatal("stats missing for invoked handler")
	}
	snapshot := stats.Snapshot()
	if snapshot.MessagesProcessed != 2 || snapshot.MessagesFailed != 2 {
		t.Fatalf("unexpected counters: %+v", &snapshot)
	}

	if bus.Stats("never-invoked") != nil {
		t.Fatal("expected nil stats for unknown handler")
	}
}

func TestBus_OriginConstraintAppliedOnDispatch(t *testing.T) {
	l := NewHandlersLocator()
	var order []string
	bindRecorderWithOrigin(t, l, KeyOf[pageFetched](), "kafka_only", "kafka", &order)

	bus := NewBus(l, newTestLogger())

	env := NewEnvelope(pageFetched{}).WithReceivedFrom("rabbitmq")
	if err := bus.Dispatch(context.Background(), env); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("constrained handler must not run for foreign origin: %v", order)
	}

	if err := bus.DispatchMessage(context.Background(), pageFetched{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("constrained handler must run on local dispatch: %v", order)
	}
}

func bindRecorder(t *testing.T, l *HandlersLocator, key reflect.Type, name string, order *[]string, result error) {
	t.Helper()
	_, err := l.BindFunc(key, func(ctx context.Context, env *Envelope) error {
		*order = append(*order, name)
		return result
	}, WithName(name))
	if err != nil {
		t.Fatalf("bind %s failed: %v", name, err)
	}
}

func bindRecorderWithOrigin(t *testing.T, l *HandlersLocator, key reflect.Type, name, origin string, order *[]string) {
	t.Helper()
	_, err := l.BindFunc(key, func(ctx context.Context, env *Envelope) error {
		*order = append(*order, name)
		return nil
	}, WithName(name), WithOriginTransport(origin))
	if err != nil {
		t.Fatalf("bind %s failed: %v", name, err)
	}
}
