package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestCircuitBreakerBasicFlow(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      3,
		Timeout:          100 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	if cb.State() != BreakerClosed {
		t.Errorf("Expected initial state to be Closed, got %v", cb.State())
	}

	err := cb.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cb.State() != BreakerClosed {
		t.Errorf("Expected state to remain Closed after success, got %v", cb.State())
	}
}

func TestCircuitBreakerFailureTransition(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      2,
		Timeout:          100 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	err := cb.Execute(func() error {
		return fmt.Errorf("operation failed")
	})
	if err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.State() != BreakerClosed {
		t.Errorf("Expected state to be Closed after first failure, got %v", cb.State())
	}

	err = cb.Execute(func() error {
		return fmt.Errorf("operation failed again")
	})
	if err == nil {
		t.Error("Expected error, got nil")
	}
	if cb.State() != BreakerOpen {
		t.Errorf("Expected state to be Open after reaching failure threshold, got %v", cb.State())
	}
}

func TestCircuitBreakerOpenState(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      1,
		Timeout:          100 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	cb.Execute(func() error {
		return fmt.Errorf("failure")
	})

	if cb.State() != BreakerOpen {
		t.Errorf("Expected state to be Open, got %v", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("Operation should not be executed when circuit is open")
		return nil
	})

	if err != ErrBreakerOpen {
		t.Errorf("Expected ErrBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenTransition(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      1,
		Timeout:          50 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	cb.Execute(func() error {
		return fmt.Errorf("failure")
	})

	if cb.State() != BreakerOpen {
		t.Errorf("Expected state to be Open, got %v", cb.State())
	}

	time.Sleep(60 * time.Millisecond)

	executed := false
	err := cb.Execute(func() error {
		executed = true
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if !executed {
		t.Error("Expected operation to be executed in half-open state")
	}

	state := cb.State()
	if state != BreakerClosed && state != BreakerHalfOpen {
		t.Errorf("Expected state to be Closed or HalfOpen after successful half-open execution, got %v", state)
	}
}

func TestCircuitBreakerReclosesAfterHalfOpenSuccesses(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      1,
		Timeout:          50 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	cb.Execute(func() error {
		return fmt.Errorf("failure")
	})

	time.Sleep(60 * time.Millisecond)

	for i := 0; i < 2; i++ {
		err := cb.Execute(func() error {
			return nil
		})
		if err != nil {
			t.Fatalf("Probe %d: expected no error, got %v", i+1, err)
		}
	}

	if cb.State() != BreakerClosed {
		t.Errorf("Expected state to be Closed after enough half-open successes, got %v", cb.State())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      1,
		Timeout:          50 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	}

	cb := NewCircuitBreaker(config)

	cb.Execute(func() error {
		return fmt.Errorf("failure")
	})

	time.Sleep(60 * time.Millisecond)

	cb.Execute(func() error {
		return nil
	})
	cb.Execute(func() error {
		return fmt.Errorf("failure while probing")
	})

	if cb.State() != BreakerOpen {
		t.Errorf("Expected state to be Open after a half-open failure, got %v", cb.State())
	}
}

func TestCircuitBreakerConcurrency(t *testing.T) {
	config := &BreakerConfig{
		MaxFailures:      5,
		Timeout:          100 * time.Millisecond,
		HalfOpenMaxCalls: 3,
	}

	cb := NewCircuitBreaker(config)

	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 10; j++ {
				cb.Execute(func() error {
					if (id+j)%3 == 0 {
						return fmt.Errorf("failure %d-%d", id, j)
					}
					return nil
				})
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	err := cb.Execute(func() error {
		return nil
	})

	if err != nil && err != ErrBreakerOpen {
		t.Errorf("Unexpected error after concurrent operations: %v", err)
	}
}
