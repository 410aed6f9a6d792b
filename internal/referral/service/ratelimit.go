package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

// ErrRateLimited is the sentinel callers match with errors.Is; the concrete
// error carries the retry hint.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError is returned when a quota is exhausted. RetryAfter says how
// long until the current window rolls over.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter enforces fixed-window quotas against the shared store, so the
// limits hold across replicas and restarts. Each attempt does one atomic
// increment-and-read on the (subject, action, window) counter row; there is
// no separate read-then-write step to race against.
type RateLimiter struct {
	Store store.Store
}

// Allow records an attempt and reports whether it fits inside the quota.
// Windows are fixed, anchored to the UTC epoch: a 24h window is the UTC
// calendar day, a 1m window is the wall-clock minute.
func (l *RateLimiter) Allow(
	ctx context.Context,
	subject string,
	action string,
	limit int64,
	window time.Duration,
) (Decision, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	windowStart := now.Truncate(window)

	count, err := l.Store.Counters().IncrementWindow(ctx, subject, action, windowStart)
	if err != nil {
		log.Error("failed to increment rate limit counter",
			slog.String("subject", subject),
			slog.String("action", action),
			slog.Any("error", err),
		)
		return Decision{}, err
	}

	if count > limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowStart.Add(window).Sub(now),
		}, nil
	}

	return Decision{
		Allowed:   true,
		Remaining: limit - count,
	}, nil
}

// Check runs Allow and converts a denial into a RateLimitError, for callers
// that just want the error path.
func (l *RateLimiter) Check(
	ctx context.Context,
	subject string,
	action string,
	limit int64,
	window time.Duration,
) error {
	decision, err := l.Allow(ctx, subject, action, limit, window)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		slogx.FromContext(ctx).Warn("rate limit exceeded",
			slog.String("subject", subject),
			slog.String("action", action),
			slog.Int64("limit", limit),
		)
		return &RateLimitError{RetryAfter: decision.RetryAfter}
	}
	return nil
}
