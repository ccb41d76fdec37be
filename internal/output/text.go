// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/runner"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorFaint  = color.New(color.Faint)
	colorBold   = color.New(color.Bold)
)

// colorStatus colors a status label. Color is disabled automatically when
// stdout is not a terminal or NO_COLOR is set.
func colorStatus(s result.Status, label string) string {
	switch s {
	case result.StatusPassed:
		return colorGreen.Sprint(label)
	case result.StatusFailed:
		return colorRed.Sprint(label)
	case result.StatusUnknown:
		return colorYellow.Sprint(label)
	default:
		return colorFaint.Sprint(label)
	}
}

// TextFormatter writes a report for a terminal: one line per rule followed by
// its indented messages.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (t *TextFormatter) Name() string {
	return "text"
}

// Format writes rep to w.
func (t *TextFormatter) Format(rep *runner.Report, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n\n", colorBold.Sprint(rep.Course.Code), rep.Course.URL, rep.Course.ParsedCode)

	for _, r := range rep.VisibleRows() {
		fmt.Fprintf(&b, "%-8s %s\n", colorStatus(r.Result.Success, statusLabel(r)), r.Rule)
		writeTextMessages(&b, r.Result.Messages, "         ")
		if r.Fix != nil {
			fmt.Fprintf(&b, "         fix: %s\n", colorStatus(r.Fix.Success, r.Fix.Success.String()))
			writeTextMessages(&b, r.Fix.Messages, "           ")
		}
	}

	counts := rep.Counts()
	fmt.Fprintf(&b, "\n%d rules: %s, %s, %s, %s in %s\n",
		len(rep.Rows),
		colorGreen.Sprintf("%d passed", counts[result.StatusPassed]),
		colorRed.Sprintf("%d failed", counts[result.StatusFailed]),
		colorYellow.Sprintf("%d unknown", counts[result.StatusUnknown]),
		colorFaint.Sprintf("%d not run", counts[result.StatusNotRun]),
		rep.Duration.Round(time.Millisecond))
	if hidden := len(rep.Rows) - len(rep.VisibleRows()); hidden > 0 {
		fmt.Fprintf(&b, "%d passing rules hidden\n", hidden)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func writeTextMessages(b *strings.Builder, msgs []result.MessageResult, indent string) {
	for _, msg := range msgs {
		for i, line := range msg.BodyLines {
			if i == 0 {
				fmt.Fprintf(b, "%s- %s\n", indent, line)
				continue
			}
			fmt.Fprintf(b, "%s  %s\n", indent, line)
		}
		for _, link := range msg.Links {
			fmt.Fprintf(b, "%s  %s\n", indent, colorFaint.Sprint(link))
		}
	}
}
