package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func noBackoff(int) time.Duration { return 0 }

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), 2, noBackoff, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &APIError{Provider: "openai", StatusCode: http.StatusTooManyRequests, Status: "429"}
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("withRetry = %q, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), 3, noBackoff, func() (string, error) {
		calls++
		return "", &APIError{Provider: "openai", StatusCode: http.StatusUnauthorized, Status: "401"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), 1, noBackoff, func() (string, error) {
		calls++
		return "", &APIError{Provider: "groq", StatusCode: http.StatusServiceUnavailable, Status: "503"}
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := withRetry(ctx, 3, noBackoff, func() (string, error) {
		t.Fatal("fn must not run after cancellation")
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	if got := CalculateBackoff(0); got != InitialBackoff {
		t.Errorf("attempt 0 = %v", got)
	}
	if got := CalculateBackoff(1); got != 2*InitialBackoff {
		t.Errorf("attempt 1 = %v", got)
	}
	if got := CalculateBackoff(20); got != MaxBackoff {
		t.Errorf("attempt 20 = %v", got)
	}
}
