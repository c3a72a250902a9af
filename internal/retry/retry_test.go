package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

var testPolicy = Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}

func TestDelaySequence(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		if got := testPolicy.Delay(i + 1); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestDoExhaustsWithTwoWaits(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	boom := errors.New("connection refused")

	_, err := Do(context.Background(), testPolicy, rec.sleep, nil, func(context.Context, int) (int, error) {
		calls++
		return 0, boom
	})

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 || calls != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3/3", exhausted.Attempts, calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("underlying error not preserved: %v", err)
	}
	if len(rec.delays) != 2 || rec.delays[0] != time.Second || rec.delays[1] != 2*time.Second {
		t.Errorf("delays = %v, want [1s 2s]", rec.delays)
	}
}

func TestDoSucceedsAfterRetry(t *testing.T) {
	rec := &sleepRecorder{}
	var retried []int

	got, err := Do(context.Background(), testPolicy, rec.sleep, func(attempt int, _ error) {
		retried = append(retried, attempt)
	}, func(_ context.Context, attempt int) (string, error) {
		if attempt < 2 {
			return "", errors.New("timeout")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("Do = %q, %v", got, err)
	}
	if len(retried) != 1 || retried[0] != 1 {
		t.Errorf("onRetry calls = %v, want [1]", retried)
	}
	if len(rec.delays) != 1 {
		t.Errorf("delays = %v, want one wait", rec.delays)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	bad := errors.New("bad request")

	_, err := Do(context.Background(), testPolicy, rec.sleep, nil, func(context.Context, int) (int, error) {
		calls++
		return 0, Stop(bad)
	})
	if !errors.Is(err, bad) || calls != 1 || len(rec.delays) != 0 {
		t.Errorf("err = %v, calls = %d, delays = %v", err, calls, rec.delays)
	}
}

func TestDoAbortsWhenSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, testPolicy, Sleep, nil, func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("down")
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}
