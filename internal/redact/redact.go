// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package redact strips LMS credentials from strings before they appear in
// output, logs, or error messages.
package redact

import (
	"os"
	"strings"
	"sync"
)

// Placeholder replaces every redacted value.
const Placeholder = "[REDACTED]"

var (
	mu sync.RWMutex

	// sensitiveEnvVars lists environment variables whose values must never
	// appear in output. Register adds the configured token variable.
	sensitiveEnvVars = []string{
		"CANVAS_API_TOKEN",
		"COURSEFIX_TOKEN",
	}

	// literals are secrets handed over directly, e.g. a token read from a file.
	literals []string
)

// RegisterEnv marks another environment variable as sensitive.
func RegisterEnv(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	for _, v := range sensitiveEnvVars {
		if v == name {
			return
		}
	}
	sensitiveEnvVars = append(sensitiveEnvVars, name)
}

// RegisterSecret marks a literal value as sensitive.
func RegisterSecret(secret string) {
	if len(secret) < 4 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	literals = append(literals, secret)
}

func secrets() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(sensitiveEnvVars)+len(literals))
	for _, name := range sensitiveEnvVars {
		// Values under 4 chars would cause false-positive redaction.
		if val := os.Getenv(name); len(val) >= 4 {
			out = append(out, val)
		}
	}
	return append(out, literals...)
}

// String replaces any occurrence of a known secret with Placeholder.
func String(s string) string {
	for _, secret := range secrets() {
		s = strings.ReplaceAll(s, secret, Placeholder)
	}
	return s
}

// resetForTesting restores the default variable list and drops literals.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	sensitiveEnvVars = []string{"CANVAS_API_TOKEN", "COURSEFIX_TOKEN"}
	literals = nil
}
