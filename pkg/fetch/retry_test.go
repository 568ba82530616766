package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func alwaysRetry(error) bool { return true }
func neverRetry(error) bool  { return false }

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 800*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 800ms", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", cfg.MaxBackoff)
	}
	if cfg.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", cfg.BackoffMultiplier)
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	callCount := 0
	fn := func() error {
		callCount++
		return nil
	}

	err := retryWithBackoff(context.Background(), testRetryConfig(), zerolog.Nop(), fn, alwaysRetry)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	callCount := 0
	fn := func() error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := retryWithBackoff(context.Background(), testRetryConfig(), zerolog.Nop(), fn, alwaysRetry)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_NonRetryableStopsImmediately(t *testing.T) {
	callCount := 0
	permanent := errors.New("bad request")
	fn := func() error {
		callCount++
		return permanent
	}

	err := retryWithBackoff(context.Background(), testRetryConfig(), zerolog.Nop(), fn, neverRetry)
	if !errors.Is(err, permanent) {
		t.Errorf("expected original error, got %v", err)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("non-retryable error must not be wrapped as exhaustion")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_Exhaustion(t *testing.T) {
	callCount := 0
	underlying := errors.New("still failing")
	fn := func() error {
		callCount++
		return underlying
	}

	err := retryWithBackoff(context.Background(), testRetryConfig(), zerolog.Nop(), fn, alwaysRetry)
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Errorf("exhaustion error should wrap the last failure, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := testRetryConfig()
	cfg.InitialBackoff = time.Minute // force the select to hit ctx.Done

	callCount := 0
	fn := func() error {
		callCount++
		cancel()
		return errors.New("fail")
	}

	start := time.Now()
	err := retryWithBackoff(ctx, cfg, zerolog.Nop(), fn, alwaysRetry)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, should not wait out the backoff", elapsed)
	}
}

func TestRetryWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	callCount := 0
	fn := func() error {
		callCount++
		return nil
	}

	cfg := testRetryConfig()
	cfg.MaxAttempts = 0
	if err := retryWithBackoff(context.Background(), cfg, zerolog.Nop(), fn, alwaysRetry); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}
