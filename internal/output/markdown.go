// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/runner"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes a report as a human-readable Markdown summary.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes rep to w as a Markdown document.
//
// The output includes:
//   - A title heading naming the course
//   - A status distribution table
//   - One section per topic listing its visible rows with their messages
func (m *MarkdownFormatter) Format(rep *runner.Report, w io.Writer) error {
	if err := writeMarkdownHeader(w, rep); err != nil {
		return err
	}
	if err := writeStatusTable(w, rep.Counts()); err != nil {
		return err
	}

	groups := groupByTopic(rep.VisibleRows())
	for _, topic := range rule.Topics {
		rows := groups[topic]
		if len(rows) == 0 {
			continue
		}
		if err := writeTopicSection(w, topic, rows); err != nil {
			return err
		}
	}
	return nil
}

func groupByTopic(rows []runner.RowReport) map[rule.Topic][]runner.RowReport {
	groups := make(map[rule.Topic][]runner.RowReport)
	for _, r := range rows {
		groups[r.Topic] = append(groups[r.Topic], r)
	}
	return groups
}

func writeMarkdownHeader(w io.Writer, rep *runner.Report) error {
	title := "Course Check"
	if rep.Fixed {
		title = "Course Fix"
	}
	if _, err := fmt.Fprintf(w, "# %s: %s\n\n", title, rep.Course.Code); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "**Course:** [%d](%s) | **Rules:** %d | **Run:** `%s`\n\n",
		rep.Course.ID, rep.Course.URL, len(rep.Rows), rep.RunID); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeStatusTable(w io.Writer, counts map[result.Status]int) error {
	var b strings.Builder
	b.WriteString("| Status | Count |\n")
	b.WriteString("|--------|-------|\n")
	for _, s := range []result.Status{result.StatusPassed, result.StatusFailed, result.StatusUnknown, result.StatusNotRun} {
		fmt.Fprintf(&b, "| %s | %d |\n", s, counts[s])
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write status table: %w", err)
	}
	return nil
}

func writeTopicSection(w io.Writer, topic rule.Topic, rows []runner.RowReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%d rules)\n\n", topic, len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "- **%s** `%s`", statusLabel(r), r.Rule)
		if r.Description != "" {
			fmt.Fprintf(&b, ": %s", r.Description)
		}
		b.WriteString("\n")
		writeMarkdownMessages(&b, r.Result.Messages, "  ")
		if r.Fix != nil {
			fmt.Fprintf(&b, "  - Fix: **%s**\n", strings.ToUpper(r.Fix.Success.String()))
			writeMarkdownMessages(&b, r.Fix.Messages, "    ")
		}
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write topic %s: %w", topic, err)
	}
	return nil
}

func writeMarkdownMessages(b *strings.Builder, msgs []result.MessageResult, indent string) {
	for _, msg := range msgs {
		text := strings.Join(msg.BodyLines, " / ")
		if len(msg.Links) > 0 {
			fmt.Fprintf(b, "%s- [%s](%s)\n", indent, text, msg.Links[0])
			continue
		}
		fmt.Fprintf(b, "%s- %s\n", indent, text)
	}
}
