// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davetashner/coursefix/internal/runner"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps the visible rows with metadata for the JSON output format.
type JSONEnvelope struct {
	Course   runner.CourseInfo  `json:"course"`
	Rows     []runner.RowReport `json:"rows"`
	Metadata JSONMetadata       `json:"metadata"`
}

// JSONMetadata describes the run that produced the rows.
type JSONMetadata struct {
	RunID       string         `json:"run_id"`
	Mode        string         `json:"mode"`
	TotalCount  int            `json:"total_count"`
	HiddenCount int            `json:"hidden_count"`
	Counts      map[string]int `json:"counts"`
	DurationMS  int64          `json:"duration_ms"`
	GeneratedAt string         `json:"generated_at"`
}

// JSONFormatter writes a report as a JSON object with a metadata envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces unless w is a
	// pipe or regular file.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the visible rows of rep as a JSON document to w.
func (f *JSONFormatter) Format(rep *runner.Report, w io.Writer) error {
	rows := rep.VisibleRows()
	if rows == nil {
		rows = []runner.RowReport{}
	}

	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	counts := make(map[string]int)
	for status, n := range rep.Counts() {
		counts[status.String()] = n
	}

	mode := "check"
	if rep.Fixed {
		mode = "fix"
	}

	envelope := JSONEnvelope{
		Course: rep.Course,
		Rows:   rows,
		Metadata: JSONMetadata{
			RunID:       rep.RunID.String(),
			Mode:        mode,
			TotalCount:  len(rep.Rows),
			HiddenCount: len(rep.Rows) - len(rows),
			Counts:      counts,
			DurationMS:  rep.Duration.Milliseconds(),
			GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// shouldCompact reports whether to use compact mode: always when Compact is
// set, otherwise only when w is a file that is not a terminal.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
