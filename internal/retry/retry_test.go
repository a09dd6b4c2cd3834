package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastPolicy keeps test backoff short and deterministic.
func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		Jitter:       func() time.Duration { return 0 },
	}
}

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient failure")
		}
		return "ok", nil
	}

	got, err := Do(context.Background(), fastPolicy(3), testLogger(), op)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, want ok", got)
	}
	if calls != 3 {
		t.Errorf("op invoked %d times, want 3", calls)
	}
}

func TestDo_PropagatesFinalErrorUnchanged(t *testing.T) {
	finalErr := errors.New("still broken")
	calls := 0
	op := func(ctx context.Context) (int, error) {
		calls++
		return 0, finalErr
	}

	_, err := Do(context.Background(), fastPolicy(3), testLogger(), op)
	if !errors.Is(err, finalErr) {
		t.Fatalf("Do() error = %v, want the final attempt's error", err)
	}
	if err.Error() != "still broken" {
		t.Errorf("error was wrapped: %q", err.Error())
	}
	if calls != 3 {
		t.Errorf("op invoked %d times, want 3", calls)
	}
}

func TestDo_NoRetryAfterLastAttempt(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	}

	start := time.Now()
	_, err := Do(context.Background(), Policy{
		MaxAttempts:  1,
		InitialDelay: time.Hour, // would hang if the last attempt slept
	}, testLogger(), op)
	if err == nil {
		t.Fatal("Do() expected error")
	}
	if calls != 1 {
		t.Errorf("op invoked %d times, want 1", calls)
	}
	if time.Since(start) > time.Second {
		t.Error("Do() slept after the final attempt")
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	op := func(ctx context.Context) (int, error) {
		cancel()
		return 0, errors.New("fail")
	}

	_, err := Do(ctx, Policy{MaxAttempts: 3, InitialDelay: time.Hour}, testLogger(), op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, want context.Canceled", err)
	}
}

func TestPolicy_DelayBounds(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: 2 * time.Second}

	for attempt := 0; attempt < 2; attempt++ {
		base := p.InitialDelay << attempt
		for i := 0; i < 50; i++ {
			d := p.delay(attempt)
			if d < base || d >= base+time.Second {
				t.Fatalf("delay(%d) = %v, want in [%v, %v)", attempt, d, base, base+time.Second)
			}
		}
	}
}

func TestPolicy_Classify(t *testing.T) {
	p := Policy{}

	botErr := errors.New("ERROR: Sign in to confirm you're not a bot. This helps protect our community.")
	if got := p.Classify(botErr); got != ClassBotDetection {
		t.Errorf("Classify(bot) = %v, want %v", got, ClassBotDetection)
	}

	if got := p.Classify(errors.New("connection reset")); got != ClassTransient {
		t.Errorf("Classify(other) = %v, want %v", got, ClassTransient)
	}

	custom := Policy{Signatures: []string{"quota exceeded"}}
	if got := custom.Classify(errors.New("dailyLimitExceeded: quota exceeded")); got != ClassBotDetection {
		t.Errorf("Classify(custom signature) = %v, want %v", got, ClassBotDetection)
	}
}
