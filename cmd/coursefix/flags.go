// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/coursefix/internal/rule"
)

// topicFlag is a repeatable, comma-separated --topic value restricted to the
// catalog topics.
type topicFlag struct {
	topics []rule.Topic
}

var _ pflag.Value = (*topicFlag)(nil)

func (f *topicFlag) String() string {
	names := make([]string, len(f.topics))
	for i, t := range f.topics {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

func (f *topicFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		t := rule.Topic(part)
		if !slices.Contains(rule.Topics, t) {
			return fmt.Errorf("unknown topic %q (available: %s)", part, topicNames())
		}
		if !slices.Contains(f.topics, t) {
			f.topics = append(f.topics, t)
		}
	}
	return nil
}

func (f *topicFlag) Type() string { return "topic" }

// has reports whether t was selected. No selection matches every topic.
func (f *topicFlag) has(t rule.Topic) bool {
	return len(f.topics) == 0 || slices.Contains(f.topics, t)
}

func topicNames() string {
	names := make([]string, len(rule.Topics))
	for i, t := range rule.Topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// runFlags are the flags shared by check and fix.
type runFlags struct {
	rules        string
	topics       topicFlag
	onlyFailures bool
	format       string
	output       string
	concurrency  int
}

func (rf *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rf.rules, "rules", "r", "", "comma-separated list of rules to run (default: all)")
	cmd.Flags().Var(&rf.topics, "topic", "only run rules of these topics ("+topicNames()+")")
	cmd.Flags().BoolVar(&rf.onlyFailures, "only-failures", false, "hide passing rules from the report")
	cmd.Flags().StringVarP(&rf.format, "format", "f", "", "output format (json, markdown, text; default text)")
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().IntVar(&rf.concurrency, "concurrency", 0, "rules checked at once (default 4)")
}

func (rf *runFlags) reset() {
	*rf = runFlags{}
}

// ruleNames splits the --rules value.
func (rf *runFlags) ruleNames() []string {
	var names []string
	for _, name := range strings.Split(rf.rules, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
