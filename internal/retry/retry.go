// Package retry executes fallible upstream calls with bounded exponential
// backoff and jitter.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

// ErrRetriesExhausted is returned when all attempts are consumed without a
// captured error. In practice the final attempt's error is always returned
// instead; this is a defensive branch.
var ErrRetriesExhausted = errors.New("max retries exceeded")

// Classification labels a failure for retry logging.
type Classification string

const (
	// ClassBotDetection marks the platform's automated-traffic rejection,
	// recognized by a known substring in the error message.
	ClassBotDetection Classification = "bot_detection"

	// ClassTransient marks every other failure.
	ClassTransient Classification = "transient"
)

// BotDetectionSignatures are the substrings that identify a rate-limit or
// bot-detection rejection from the upstream platform.
var BotDetectionSignatures = []string{
	"Sign in to confirm you're not a bot",
	"HTTP Error 429",
	"Too Many Requests",
}

// Policy configures a bounded retry loop.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the backoff base: attempt k waits
	// InitialDelay*2^k plus jitter.
	InitialDelay time.Duration

	// Signatures identify bot-detection failures for classification.
	// Empty means BotDetectionSignatures.
	Signatures []string

	// Jitter overrides the jitter source. Nil means uniform [0s, 1s).
	Jitter func() time.Duration
}

// DefaultPolicy returns the retry policy used for engine and search API calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
	}
}

// Classify labels err for logging and error-kind mapping.
func (p Policy) Classify(err error) Classification {
	if err == nil {
		return ClassTransient
	}
	sigs := p.Signatures
	if len(sigs) == 0 {
		sigs = BotDetectionSignatures
	}
	msg := err.Error()
	for _, sig := range sigs {
		if strings.Contains(msg, sig) {
			return ClassBotDetection
		}
	}
	return ClassTransient
}

// delay computes the backoff before the attempt following attempt k.
func (p Policy) delay(attempt int) time.Duration {
	jitter := p.Jitter
	if jitter == nil {
		jitter = func() time.Duration {
			return time.Duration(rand.Float64() * float64(time.Second))
		}
	}
	return p.InitialDelay<<attempt + jitter()
}

// Do runs op up to p.MaxAttempts times. Every failure is retried after a
// backoff; the last attempt's error is propagated unchanged. The sleep is
// context-aware so a cancelled request does not keep retrying.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts-1 {
			break
		}

		d := p.delay(attempt)
		logger.Warn("upstream call failed, retrying",
			"attempt", attempt+1,
			"max_attempts", p.MaxAttempts,
			"delay", d,
			"classification", p.Classify(err),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(d):
		}
	}

	if lastErr == nil {
		return zero, ErrRetriesExhausted
	}
	return zero, lastErr
}
