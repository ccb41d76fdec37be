// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

// State is where a Row is in its lifecycle.
type State int

// Row states. A row moves Unstarted -> Running -> Resulted, and back through
// Running (or Fixing then Running) on an explicit refresh or fix.
const (
	StateUnstarted State = iota
	StateRunning
	StateFixing
	StateResulted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFixing:
		return "fixing"
	case StateResulted:
		return "resulted"
	default:
		return "unstarted"
	}
}

// Row tracks one rule against one course.
//
// Row methods are safe for concurrent use; operations on the same row are
// serialized.
type Row struct {
	Rule rule.Rule

	op sync.Mutex // serializes Start, Refresh and Fix

	mu       sync.Mutex
	state    State
	result   *result.ValidationResult
	fix      *result.ValidationResult
	runs     int
	duration time.Duration
	err      error // set when the last run returned an error or panicked
}

// NewRow returns an unstarted row.
func NewRow(r rule.Rule) *Row {
	return &Row{Rule: r}
}

// State returns the current state.
func (r *Row) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result returns the last result, if any.
func (r *Row) Result() (result.ValidationResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return result.ValidationResult{}, false
	}
	return *r.result, true
}

// FixResult returns the result of the last fix, if any.
func (r *Row) FixResult() (result.ValidationResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fix == nil {
		return result.ValidationResult{}, false
	}
	return *r.fix, true
}

// Runs reports how many times the rule's run function has been invoked.
func (r *Row) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Duration is the wall time of the last run.
func (r *Row) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

// Err returns the error or panic the last run was converted from, if any.
func (r *Row) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Visible reports whether the row should be shown. With onlyFailures set,
// rows whose last result passed are hidden.
func (r *Row) Visible(onlyFailures bool) bool {
	if !onlyFailures {
		return true
	}
	res, ok := r.Result()
	return !ok || res.Success != result.StatusPassed
}

// Start runs the rule unless it has already run. It returns the current
// result either way.
func (r *Row) Start(ctx context.Context, c any, cfg *course.RequestConfig) result.ValidationResult {
	r.op.Lock()
	defer r.op.Unlock()
	if res, ok := r.Result(); ok {
		return res
	}
	return r.run(ctx, c, cfg)
}

// Refresh runs the rule again.
func (r *Row) Refresh(ctx context.Context, c any, cfg *course.RequestConfig) result.ValidationResult {
	r.op.Lock()
	defer r.op.Unlock()
	return r.run(ctx, c, cfg)
}

// Fix applies the rule's fix, handing it the last result, then runs the rule
// again. It returns the fix result and the re-validated result. Rules without
// a fix return an error wrapping rule.ErrNoFix and leave the row untouched.
func (r *Row) Fix(ctx context.Context, c any, cfg *course.RequestConfig) (fixed, confirmed result.ValidationResult, err error) {
	if !r.Rule.CanFix() {
		return fixed, confirmed, fmt.Errorf("rule %q: %w", r.Rule.Name, rule.ErrNoFix)
	}

	r.op.Lock()
	defer r.op.Unlock()

	var prev *result.ValidationResult
	if res, ok := r.Result(); ok {
		prev = &res
	}
	r.setState(StateFixing)
	fixed, _ = r.invoke("fix", func() (result.ValidationResult, error) {
		return r.Rule.Apply(ctx, c, prev)
	})
	r.mu.Lock()
	r.fix = &fixed
	r.mu.Unlock()
	slog.Debug("rule fixed", "rule", r.Rule.Name, "status", fixed.Success)

	confirmed = r.run(ctx, c, cfg)
	return fixed, confirmed, nil
}

func (r *Row) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Row) run(ctx context.Context, c any, cfg *course.RequestConfig) result.ValidationResult {
	r.setState(StateRunning)
	start := time.Now()
	res, err := r.invoke("run", func() (result.ValidationResult, error) {
		return r.Rule.Check(ctx, c, cfg)
	})
	elapsed := time.Since(start)

	r.mu.Lock()
	r.result = &res
	r.err = err
	r.runs++
	r.duration = elapsed
	r.state = StateResulted
	r.mu.Unlock()

	slog.Debug("rule ran", "rule", r.Rule.Name, "status", res.Success, "duration", elapsed)
	return res
}

// invoke calls fn, turning a returned error or a panic into a failed result.
// The converted error is returned alongside.
func (r *Row) invoke(phase string, fn func() (result.ValidationResult, error)) (res result.ValidationResult, failure error) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("rule panicked", "rule", r.Rule.Name, "phase", phase, "panic", p)
			failure = &panicError{rule: r.Rule.Name, phase: phase, value: p, stack: debug.Stack()}
			res = result.ErrorResult(failure)
		}
	}()
	res, err := fn()
	if err != nil {
		slog.Warn("rule returned error", "rule", r.Rule.Name, "phase", phase, "error", err)
		return result.ErrorResult(err), err
	}
	if res.Messages == nil {
		res.Messages = []result.MessageResult{}
	}
	return res, nil
}

// panicError carries a recovered panic. %+v adds the stack.
type panicError struct {
	rule  string
	phase string
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("rule %s panicked during %s: %v", e.rule, e.phase, e.value)
}

func (e *panicError) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "%s\n%s", e.Error(), e.stack)
		return
	}
	fmt.Fprint(f, e.Error())
}
