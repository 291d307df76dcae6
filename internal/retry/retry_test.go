package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/google/go-cmp/cmp"
)

type netError struct {
	timeout   bool
	temporary bool
}

func (e netError) Error() string   { return "net error" }
func (e netError) Timeout() bool   { return e.timeout }
func (e netError) Temporary() bool { return e.temporary }

type statusError struct{ code int }

func (e statusError) Error() string   { return "status" }
func (e statusError) Temporary() bool { return e.code >= 500 }

func TestRun_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := Policy{Attempts: 3}.Run(context.Background(), func(context.Context) error {
		calls++
		return netError{timeout: true}
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRun_PermanentErrorStopsImmediately(t *testing.T) {
	calls := 0
	err := Policy{Attempts: 3}.Run(context.Background(), func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("err = %v, calls = %d; want error after 1 call", err, calls)
	}
}

func TestRun_SucceedsAfterRetry(t *testing.T) {
	var seen []int
	p := Policy{
		Attempts: 3,
		OnRetry:  func(attempt int, _ error, _ time.Duration) { seen = append(seen, attempt) },
	}
	calls := 0
	err := p.Run(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return netError{timeout: true}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, seen); diff != "" {
		t.Errorf("OnRetry attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_ = Policy{}.Run(context.Background(), func(context.Context) error {
		calls++
		return netError{timeout: true}
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Lookups().Run(ctx, func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestRun_CancelDuringPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{Attempts: 3, Wait: time.Hour, MaxWait: time.Hour}
	p.OnRetry = func(int, error, time.Duration) { cancel() }

	err := p.Run(ctx, func(context.Context) error { return netError{timeout: true} })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPause_Bounds(t *testing.T) {
	p := Policy{Wait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond}
	tests := []struct {
		attempt  int
		min, max time.Duration
	}{
		{1, 50 * time.Millisecond, 100 * time.Millisecond},
		{2, 100 * time.Millisecond, 200 * time.Millisecond},
		{3, 150 * time.Millisecond, 300 * time.Millisecond},
		{10, 150 * time.Millisecond, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		for range 20 {
			if got := p.pause(tt.attempt); got < tt.min || got > tt.max {
				t.Fatalf("pause(%d) = %v, want within [%v, %v]", tt.attempt, got, tt.min, tt.max)
			}
		}
	}

	if got := (Policy{}).pause(1); got != 0 {
		t.Errorf("pause without Wait = %v, want 0", got)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset", syscall.ECONNRESET, true},
		{"net timeout", netError{timeout: true}, true},
		{"temporary", netError{temporary: true}, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTransportFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain timeout", netError{timeout: true}, false},
		{"request timeout", domain.RequestError("transport failure", "a.hu", netError{timeout: true}), true},
		{"request 502", domain.RequestError("transport failure", "a.hu", statusError{code: 502}), true},
		{"request 404", domain.RequestError("transport failure", "a.hu", statusError{code: 404}), false},
		{"request without cause", domain.RequestError("cannot interpret reply", "a.hu", nil), false},
		{"registry status", domain.ResponseError("Hiba", "a.hu", 1), false},
		{"not found", domain.DomainNotFound("a.hu"), false},
		{"wrapped", fmt.Errorf("lookup: %w", domain.RequestError("transport failure", "", syscall.ECONNRESET)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransportFailure(tt.err); got != tt.want {
				t.Errorf("IsTransportFailure = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookups_RetriesTransportFailuresOnly(t *testing.T) {
	p := Lookups()
	p.Attempts = 4
	p.Wait = 0

	calls := 0
	err := p.Run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.RequestError("transport failure", "a.hu", syscall.ECONNREFUSED)
		}
		return domain.ResponseError("Hiba", "a.hu", 1)
	})
	if !errors.Is(err, domain.ErrResponse) {
		t.Fatalf("err = %v, want response error", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}
