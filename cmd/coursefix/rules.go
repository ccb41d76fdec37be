// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/coursefix/internal/rule"
)

var (
	rulesListTopics topicFlag
	rulesListJSON   bool
)

// rulesCmd is the parent command for catalog introspection.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Describe the rule catalog",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every rule grouped by topic",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesInfoCmd = &cobra.Command{
	Use:   "info <rule>",
	Short: "Show a rule with its before-and-after examples",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesInfo,
}

func init() {
	rulesListCmd.Flags().Var(&rulesListTopics, "topic", "only list rules of these topics ("+topicNames()+")")
	rulesListCmd.Flags().BoolVar(&rulesListJSON, "json", false, "machine-readable output")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesInfoCmd)
}

// ruleSummary is the JSON shape of one catalog entry.
type ruleSummary struct {
	Name        string     `json:"name"`
	Topic       rule.Topic `json:"topic"`
	Scope       rule.Scope `json:"scope"`
	Description string     `json:"description"`
	CanFix      bool       `json:"can_fix"`
	CourseCodes []string   `json:"course_codes,omitempty"`
}

func summarize(r rule.Rule) ruleSummary {
	return ruleSummary{
		Name:        r.Name,
		Topic:       r.Topic,
		Scope:       r.Scope,
		Description: r.Description,
		CanFix:      r.CanFix(),
		CourseCodes: r.CourseCodes,
	}
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	var rules []rule.Rule
	for _, r := range rule.All() {
		if rulesListTopics.has(r.Topic) {
			rules = append(rules, r)
		}
	}

	if rulesListJSON {
		out := make([]ruleSummary, len(rules))
		for i, r := range rules {
			out[i] = summarize(r)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal rules: %w", err)
		}
		_, _ = fmt.Fprintln(w, string(data))
		return nil
	}

	bold := color.New(color.Bold)
	fixBadge := color.New(color.FgGreen).Sprint("[fix]")
	for _, topic := range rule.Topics {
		var inTopic []rule.Rule
		for _, r := range rules {
			if r.Topic == topic {
				inTopic = append(inTopic, r)
			}
		}
		if len(inTopic) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s (%d)\n", bold.Sprint(topic), len(inTopic))
		for _, r := range inTopic {
			badge := "     "
			if r.CanFix() {
				badge = fixBadge
			}
			line := fmt.Sprintf("  %s %s", badge, r.Name)
			if len(r.CourseCodes) > 0 {
				line += fmt.Sprintf(" [%s]", strings.Join(r.CourseCodes, ", "))
			}
			_, _ = fmt.Fprintln(w, line)
			if r.Description != "" {
				_, _ = fmt.Fprintf(w, "        %s\n", r.Description)
			}
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

func runRulesInfo(cmd *cobra.Command, args []string) error {
	r, ok := rule.Get(args[0])
	if !ok {
		return exitError(ExitInvalidArgs, "coursefix: unknown rule: %q; see 'coursefix rules list'", args[0])
	}
	writeRuleInfo(cmd.OutOrStdout(), r)
	return nil
}

func writeRuleInfo(w io.Writer, r rule.Rule) {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(w, "%s\n", bold.Sprint(r.Name))
	_, _ = fmt.Fprintf(w, "  topic:    %s\n", r.Topic)
	_, _ = fmt.Fprintf(w, "  scope:    %s\n", r.Scope)
	_, _ = fmt.Fprintf(w, "  can fix:  %t\n", r.CanFix())
	courses := "all"
	if len(r.CourseCodes) > 0 {
		courses = strings.Join(r.CourseCodes, ", ")
	}
	_, _ = fmt.Fprintf(w, "  courses:  %s\n", courses)
	if r.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", r.Description)
	}

	for i, ex := range r.BeforeAndAfters {
		_, _ = fmt.Fprintf(w, "\nExample %d\n  before: %s\n  after:  %s\n", i+1, ex.Bad, ex.Good)
	}
	if len(r.PositiveExemplars) > 0 {
		_, _ = fmt.Fprintln(w, "\nAlready compliant")
		for _, ex := range r.PositiveExemplars {
			_, _ = fmt.Fprintf(w, "  %s\n", ex)
		}
	}
}
