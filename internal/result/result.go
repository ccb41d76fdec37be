// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package result defines the outcome types every validation rule produces and
// every caller consumes.
package result

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of a validation run or fix attempt.
type Status int

const (
	// StatusUnknown means the check could not be meaningfully evaluated, for
	// example because zero or several candidate pages were found. It is the
	// zero value so an unset status normalizes to indeterminate.
	StatusUnknown Status = iota

	// StatusPassed means the content satisfies the rule.
	StatusPassed

	// StatusFailed means the content violates the rule, or a fix could not
	// make it compliant.
	StatusFailed

	// StatusNotRun means a fix was skipped because validation already passed
	// or no concrete target could be identified.
	StatusNotRun
)

var statusNames = map[Status]string{
	StatusUnknown: "unknown",
	StatusPassed:  "passed",
	StatusFailed:  "failed",
	StatusNotRun:  "not run",
}

// String returns the display name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Truthy reports whether the status selects the not-failure message. Every
// status except StatusFailed is truthy.
func (s Status) Truthy() bool {
	return s != StatusFailed
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name. Unrecognized names decode as
// StatusUnknown.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	*s = ParseStatus(name)
	return nil
}

// ParseStatus maps a status name back to its Status. Unrecognized names map to
// StatusUnknown.
func ParseStatus(name string) Status {
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return StatusUnknown
}

// Bool converts a plain pass/fail outcome to a Status.
func Bool(ok bool) Status {
	if ok {
		return StatusPassed
	}
	return StatusFailed
}

// MessageResult is one displayable message: a few lines of text plus the
// links that let a reviewer jump to the content it describes.
type MessageResult struct {
	BodyLines []string `json:"bodyLines"`
	Links     []string `json:"links,omitempty"`
}

// ValidationResult is the single response type of every rule run and fix.
type ValidationResult struct {
	Success  Status          `json:"success"`
	Messages []MessageResult `json:"messages"`

	// Links is the flat list of every offending location, redundant with the
	// per-message links.
	Links []string `json:"links,omitempty"`

	// UserData carries whatever a run wants to hand to the matching fix so the
	// fix does not have to fetch or scan again.
	UserData any `json:"-"`
}

// Options configures New.
type Options struct {
	// FailureMessage is used when the status is StatusFailed. It accepts a
	// string, []string, MessageResult or []MessageResult. Nil means "failure".
	FailureMessage any

	// NotFailureMessage is used for every other status. Same accepted types as
	// FailureMessage. Nil means "success".
	NotFailureMessage any

	Links    []string
	UserData any
}

// New builds a ValidationResult, normalizing whichever message shape the
// caller supplied into []MessageResult.
func New(success Status, opts Options) ValidationResult {
	failure := opts.FailureMessage
	if failure == nil {
		failure = "failure"
	}
	notFailure := opts.NotFailureMessage
	if notFailure == nil {
		notFailure = "success"
	}

	msg := failure
	if success.Truthy() {
		msg = notFailure
	}

	return ValidationResult{
		Success:  success,
		Messages: EnsureMessageResults(msg),
		Links:    opts.Links,
		UserData: opts.UserData,
	}
}

// Passed is shorthand for a passing result with the given message.
func Passed(msg any) ValidationResult {
	return New(StatusPassed, Options{NotFailureMessage: msg})
}

// Failed is shorthand for a failing result with the given message.
func Failed(msg any) ValidationResult {
	return New(StatusFailed, Options{FailureMessage: msg})
}

// NotRun is shorthand for a skipped fix with the given message.
func NotRun(msg any) ValidationResult {
	return New(StatusNotRun, Options{NotFailureMessage: msg})
}

// EnsureMessageResults normalizes a message value:
//
//   - string: one message with one body line
//   - []string: one message with one body line per element (empty stays empty)
//   - MessageResult: a one-element slice
//   - []MessageResult: passed through
//
// The returned slice is never nil. Any other type is a programming error and
// panics.
func EnsureMessageResults(v any) []MessageResult {
	switch m := v.(type) {
	case string:
		return []MessageResult{{BodyLines: []string{m}}}
	case []string:
		if len(m) == 0 {
			return []MessageResult{}
		}
		lines := make([]string, len(m))
		copy(lines, m)
		return []MessageResult{{BodyLines: lines}}
	case MessageResult:
		return []MessageResult{m}
	case []MessageResult:
		if m == nil {
			return []MessageResult{}
		}
		return m
	default:
		panic(fmt.Sprintf("result: unsupported message type %T", v))
	}
}

// ErrorResult wraps an error into a failed result. The first body line is the
// error text; when the error formats to more detail with %+v (a stack trace,
// for instance) that detail becomes the second line.
func ErrorResult(err error, links ...string) ValidationResult {
	if err == nil {
		return Failed("unknown error")
	}
	lines := []string{err.Error()}
	if detail := fmt.Sprintf("%+v", err); detail != lines[0] {
		lines = append(lines, detail)
	}
	msg := MessageResult{BodyLines: lines}
	if len(links) > 0 {
		msg.Links = links
	}
	r := New(StatusFailed, Options{FailureMessage: msg})
	if len(links) > 0 {
		r.Links = links
	}
	return r
}
