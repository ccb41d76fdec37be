// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package settingsrule

import (
	"context"
	"fmt"
	"strings"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

func visibility(hidden bool) string {
	if hidden {
		return "hidden"
	}
	return "visible"
}

// CreateTabVisibilityValidation returns a rule requiring the navigation tab
// labeled label to be hidden or visible. Zero or several tabs with that label
// make the result unknown, and the fix does not run.
func CreateTabVisibilityValidation(name, label string, hidden bool, description string) rule.Rule {
	run := rule.Capable(func(ctx context.Context, c course.TabsHaver, cfg *course.RequestConfig) (result.ValidationResult, error) {
		tabs, err := c.GetTabs(ctx, cfg)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch tabs: %w", err)
		}
		var found []course.Tab
		for _, t := range tabs {
			if strings.EqualFold(t.Label, label) {
				found = append(found, t)
			}
		}
		link := SettingsURL(c) + "#tab-navigation"
		if len(found) != 1 {
			return result.New(result.StatusUnknown, result.Options{
				NotFailureMessage: fmt.Sprintf("found %d tabs labeled %q", len(found), label),
				Links:             []string{link},
			}), nil
		}
		tab := found[0]
		return result.New(result.Bool(tab.Hidden == hidden), result.Options{
			FailureMessage:    fmt.Sprintf("tab %q is %s, expected %s", tab.Label, visibility(tab.Hidden), visibility(hidden)),
			NotFailureMessage: fmt.Sprintf("tab %q is %s", tab.Label, visibility(hidden)),
			Links:             []string{link},
			UserData:          tab,
		}), nil
	})

	fix := rule.CapableFix(func(ctx context.Context, c course.TabsHaver, prev *result.ValidationResult) (result.ValidationResult, error) {
		if prev == nil {
			r, err := run(ctx, c, nil)
			if err != nil {
				return result.ValidationResult{}, err
			}
			prev = &r
		}
		if prev.Success == result.StatusPassed {
			return result.NotRun(fmt.Sprintf("tab %q is already %s", label, visibility(hidden))), nil
		}
		tab, ok := prev.UserData.(course.Tab)
		if !ok {
			return result.NotRun(fmt.Sprintf("no single tab labeled %q to update", label)), nil
		}
		updated, err := c.UpdateTab(ctx, tab.ID, hidden)
		if err != nil {
			return result.ErrorResult(fmt.Errorf("update tab %q: %w", label, err)), nil
		}
		return result.New(result.Bool(updated != nil && updated.Hidden == hidden), result.Options{
			FailureMessage:    fmt.Sprintf("LMS did not change tab %q", label),
			NotFailureMessage: fmt.Sprintf("tab %q is now %s", label, visibility(hidden)),
			Links:             []string{SettingsURL(c) + "#tab-navigation"},
		}), nil
	})

	return rule.Rule{
		Name:        name,
		Description: description,
		Topic:       rule.TopicSettings,
		Scope:       rule.ScopeCourse,
		Run:         run,
		Fix:         fix,
	}
}
