// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/davetashner/coursefix/internal/runner"
)

// Exit codes for the coursefix CLI.
const (
	ExitOK           = 0 // No rule failed.
	ExitInvalidArgs  = 1 // Invalid arguments, config, or course reference.
	ExitRulesFailed  = 2 // At least one rule failed; the report was written.
	ExitTotalFailure = 3 // Every rule errored, or the course could not be loaded.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitRulesFailed:
			msg = "coursefix: some rules failed"
		case ExitTotalFailure:
			msg = "coursefix: every rule errored"
		default:
			msg = fmt.Sprintf("coursefix: exit %d", code)
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// computeExitCode maps a finished report to an exit code.
func computeExitCode(rep *runner.Report) int {
	switch {
	case rep.AllErrored():
		return ExitTotalFailure
	case rep.HasFailures():
		return ExitRulesFailed
	default:
		return ExitOK
	}
}
