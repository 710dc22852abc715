package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/resilience"
)

const (
	DefaultNarrationTimeout = 10 * time.Second
	DefaultJudgeTimeout     = 5 * time.Second
)

// Guard bounds collaborator calls. Breaker and Health are optional.
type Guard struct {
	Name    string
	Timeout time.Duration
	Breaker *resilience.CircuitBreaker
	Health  *resilience.HealthTracker
	// Observe, when set, is called after every call with its outcome.
	Observe func(name string, duration time.Duration, err error)
}

// call runs fn under the guard's timeout and breaker, then checks the result
// with validate. Every failure comes back wrapped in ErrUnavailable and is
// recorded in the health tracker.
func call[T any](ctx context.Context, g Guard, fn func(context.Context) (T, error), validate func(T) error) (T, error) {
	var out T
	start := time.Now()

	run := func(ctx context.Context) error {
		t := timeout.New[T](timeout.Config{DefaultTimeout: g.Timeout})
		res, err := t.Execute(ctx, g.Timeout, fn)
		if err != nil {
			return err
		}
		if err := validate(res); err != nil {
			return err
		}
		out = res
		return nil
	}

	var err error
	if g.Breaker != nil {
		err = g.Breaker.Execute(ctx, run)
	} else {
		err = run(ctx)
	}

	if g.Health != nil {
		g.Health.Record(g.Name, err)
	}
	if g.Observe != nil {
		g.Observe(g.Name, time.Since(start), err)
	}
	if err != nil {
		slog.Warn("Narrative collaborator call failed",
			"collaborator", g.Name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		var zero T
		return zero, fmt.Errorf("%s: %w: %w", g.Name, ErrUnavailable, err)
	}

	slog.Debug("Narrative collaborator call succeeded",
		"collaborator", g.Name,
		"duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// GuardedNarrator wraps a Narrator with a timeout, a breaker and health tracking.
type GuardedNarrator struct {
	inner Narrator
	guard Guard
}

func NewGuardedNarrator(inner Narrator, guard Guard) *GuardedNarrator {
	if guard.Name == "" {
		guard.Name = "narrator"
	}
	if guard.Timeout <= 0 {
		guard.Timeout = DefaultNarrationTimeout
	}
	return &GuardedNarrator{inner: inner, guard: guard}
}

func (n *GuardedNarrator) Narrate(ctx context.Context, spec SectionSpec) (string, error) {
	text, err := call(ctx, n.guard, func(ctx context.Context) (string, error) {
		return n.inner.Narrate(ctx, spec)
	}, func(text string) error {
		if strings.TrimSpace(text) == "" {
			return ErrEmptyResponse
		}
		return nil
	})
	return strings.TrimSpace(text), err
}

// GuardedJudge wraps a Judge the same way and rejects out-of-range scores.
type GuardedJudge struct {
	inner Judge
	guard Guard
}

func NewGuardedJudge(inner Judge, guard Guard) *GuardedJudge {
	if guard.Name == "" {
		guard.Name = "judge"
	}
	if guard.Timeout <= 0 {
		guard.Timeout = DefaultJudgeTimeout
	}
	return &GuardedJudge{inner: inner, guard: guard}
}

func (j *GuardedJudge) Judge(ctx context.Context, req JudgeRequest) (Judgement, error) {
	return call(ctx, j.guard, func(ctx context.Context) (Judgement, error) {
		return j.inner.Judge(ctx, req)
	}, Judgement.Validate)
}
