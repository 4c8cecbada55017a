// Package ratelimit enforces budgets on autonomous actions. Counters are
// tracked per scope (a user id, or a process-wide scope for autonomous mode)
// in fixed hourly, daily, and weekly buckets, and live in a durable store so
// limits survive process restarts.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-agent/internal/errs"
)

// CounterStore persists window counters. Implementations must make Increment
// atomic: when two concurrent calls race for the last slot, exactly one may
// succeed.
type CounterStore interface {
	// Count returns the current count for the bucket, zero if absent.
	Count(ctx context.Context, scope string, kind Kind, bucketStart time.Time) (int, error)
	// Increment adds one to the bucket counter if the current count is below
	// limit, returning false without mutation when the bucket is full.
	Increment(ctx context.Context, scope string, kind Kind, bucketStart time.Time, limit int) (bool, error)
	// Decrement subtracts one from the bucket counter, never below zero. It
	// backs out a charge when a later window declines the same action.
	Decrement(ctx context.Context, scope string, kind Kind, bucketStart time.Time) error
}

// Limits configures the maximum number of actions per window kind. A zero or
// negative value disables that window.
type Limits struct {
	PerHour int `json:"per_hour" validate:"gte=0"`
	PerDay  int `json:"per_day" validate:"gte=0"`
	PerWeek int `json:"per_week" validate:"gte=0"`
}

// DefaultLimits mirrors the autonomous-mode defaults: 10 applications per
// day, bounded to 5 per hour and 40 per week.
func DefaultLimits() Limits {
	return Limits{PerHour: 5, PerDay: 10, PerWeek: 40}
}

func (l Limits) limit(kind Kind) int {
	switch kind {
	case KindHour:
		return l.PerHour
	case KindDay:
		return l.PerDay
	case KindWeek:
		return l.PerWeek
	}
	return 0
}

// Limiter admits or denies autonomous actions against the configured limits.
type Limiter struct {
	store  CounterStore
	limits Limits
	now    func() time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's clock. Used by tests to cross window
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter over the given durable counter store.
func New(store CounterStore, limits Limits, opts ...Option) *Limiter {
	l := &Limiter{store: store, limits: limits, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryAdmit reports whether one more action fits within every configured
// window for the scope. It never mutates state: callers must Record only
// after the action actually succeeds, so failed attempts are not charged.
func (l *Limiter) TryAdmit(ctx context.Context, scope string) (bool, error) {
	now := l.now()
	for _, kind := range Kinds {
		limit := l.limits.limit(kind)
		if limit <= 0 {
			continue
		}
		count, err := l.store.Count(ctx, scope, kind, BucketStart(kind, now))
		if err != nil {
			return false, fmt.Errorf("failed to read %s counter for %s: %w", kind, scope, err)
		}
		if count >= limit {
			return false, nil
		}
	}
	return true, nil
}

// Record charges one action against every configured window for the scope.
// The store-side conditional increment closes the race where two concurrent
// runs both passed TryAdmit with one slot remaining: the loser gets a
// ResourceExhaustedError and must degrade its decision. A decline in any
// window rolls back the windows already charged, so a denied action never
// consumes budget.
func (l *Limiter) Record(ctx context.Context, scope string) error {
	now := l.now()
	var charged []Kind
	for _, kind := range Kinds {
		limit := l.limits.limit(kind)
		if limit <= 0 {
			continue
		}
		ok, err := l.store.Increment(ctx, scope, kind, BucketStart(kind, now), limit)
		if err != nil {
			if rbErr := l.release(ctx, scope, now, charged); rbErr != nil {
				return rbErr
			}
			return fmt.Errorf("failed to increment %s counter for %s: %w", kind, scope, err)
		}
		if !ok {
			if rbErr := l.release(ctx, scope, now, charged); rbErr != nil {
				return rbErr
			}
			return errs.Exhausted(scope, string(kind))
		}
		charged = append(charged, kind)
	}
	return nil
}

// release backs out charges in reverse order.
func (l *Limiter) release(ctx context.Context, scope string, now time.Time, charged []Kind) error {
	for i := len(charged) - 1; i >= 0; i-- {
		kind := charged[i]
		if err := l.store.Decrement(ctx, scope, kind, BucketStart(kind, now)); err != nil {
			return fmt.Errorf("failed to release %s counter for %s: %w", kind, scope, err)
		}
	}
	return nil
}

// Remaining returns the slots left in each configured window for the scope.
func (l *Limiter) Remaining(ctx context.Context, scope string) (map[Kind]int, error) {
	now := l.now()
	remaining := make(map[Kind]int, len(Kinds))
	for _, kind := range Kinds {
		limit := l.limits.limit(kind)
		if limit <= 0 {
			continue
		}
		count, err := l.store.Count(ctx, scope, kind, BucketStart(kind, now))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s counter for %s: %w", kind, scope, err)
		}
		left := limit - count
		if left < 0 {
			left = 0
		}
		remaining[kind] = left
	}
	return remaining, nil
}
