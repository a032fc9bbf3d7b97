package runtime

import (
	"errors"
	"testing"
	"time"
)

func TestDispatchHooks_MergeChainsInOrder(t *testing.T) {
	var calls []string
	a := DispatchHooks{
		OnStart: func(DispatchInfo) { calls = append(calls, "a.start") },
		OnError: func(DispatchInfo, error) { calls = append(calls, "a.error") },
	}
	b := DispatchHooks{
		OnStart: func(DispatchInfo) { calls = append(calls, "b.start") },
		OnDone:  func(DispatchInfo) { calls = append(calls, "b.done") },
	}

	merged := a.Merge(b)
	merged.OnStart(DispatchInfo{})
	merged.OnDone(DispatchInfo{})
	merged.OnError(DispatchInfo{}, errors.New("x"))

	want := []string{"a.start", "b.start", "b.done", "a.error"}
	if len(calls) != len(want) {
		t.Fatalf("unexpected calls: %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call order mismatch: %v", calls)
		}
	}
}

func TestDispatchHooks_MergeWithEmpty(t *testing.T) {
	called := false
	a := DispatchHooks{OnStart: func(DispatchInfo) { called = true }}

	merged := a.Merge(DispatchHooks{})
	merged.OnStart(DispatchInfo{})
	if !called {
		t.Fatal("merge with empty hooks dropped the original")
	}
	if merged.OnDone != nil {
		t.Fatal("merge must not fabricate hooks")
	}
}

func TestLoggingHooks(t *testing.T) {
	hooks := LoggingHooks(newTestLogger())
	info := DispatchInfo{
		HandlerName: "h",
		MessageID:   "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		StartedAt:   time.Now(),
		Duration:    time.Millisecond,
	}

	// Must not panic with any combination of fields.
	hooks.OnStart(info)
	hooks.OnDone(info)
	hooks.OnError(info, errors.New("x"))
}

func TestMetricsHooks(t *testing.T) {
	var started, done, failed []string
	hooks := MetricsHooks(
		func(name string) { started = append(started, name) },
		func(name string) { done = append(done, name) },
		func(name string) { failed = append(failed, name) },
	)

	hooks.OnStart(DispatchInfo{HandlerName: "h"})
	hooks.OnDone(DispatchInfo{HandlerName: "h"})
	hooks.OnError(DispatchInfo{HandlerName: "h"}, errors.New("x"))

	if len(started) != 1 || len(done) != 1 || len(failed) != 1 {
		t.Fatalf("counters not forwarded: %v %v %v", started, done, failed)
	}
}

func TestMetricsHooks_NilCallbacks(t *testing.T) {
	hooks := MetricsHooks(nil, nil, nil)
	hooks.OnStart(DispatchInfo{})
	hooks.OnDone(DispatchInfo{})
	hooks.OnError(DispatchInfo{}, errors.New("x"))
}

func TestAlertingHooks(t *testing.T) {
	var alerted error
	hooks := AlertingHooks(func(info DispatchInfo, err error) { alerted = err })

	want := errors.New("alert")
	hooks.OnError(DispatchInfo{}, want)
	if !errors.Is(alerted, want) {
		t.Fatalf("alert not fired: %v", alerted)
	}
	if hooks.OnStart != nil || hooks.OnDone != nil {
		t.Fatal("alerting hooks should only register OnError")
	}
}
