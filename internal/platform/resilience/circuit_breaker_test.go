package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	permanent := errors.New("bad request")
	transient := errors.New("upstream 503")
	isFailure := func(err error) bool { return errors.Is(err, transient) }

	if err := b.Execute(func() error { return permanent }, isFailure); !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error passthrough, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after non-failure error, got %s", state)
	}

	if err := b.Execute(func() error { return transient }, isFailure); !errors.Is(err, transient) {
		t.Fatalf("expected transient error passthrough, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after transient failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, isFailure)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to reject without calling fn, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_DisabledConfigAllowsEverything(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	if b != nil {
		t.Fatalf("expected nil breaker for disabled config")
	}
	for i := 0; i < 5; i++ {
		if err := b.Execute(func() error { return errors.New("boom") }, nil); errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("disabled breaker must never open")
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed state for disabled breaker, got %s", state)
	}
}
