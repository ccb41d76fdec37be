// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package settingsrule builds rules that hold one course setting or one
// navigation tab at an expected value.
package settingsrule

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

// SettingsURL is the settings page of a course.
func SettingsURL(c course.Identity) string {
	return strings.TrimSuffix(c.HTMLURL(), "/") + "/settings"
}

// CreateSettingsValidation returns a rule requiring course setting to equal
// expected. The fix writes expected and checks the value the LMS echoes.
func CreateSettingsValidation(name, setting string, expected any, description string) rule.Rule {
	run := rule.Capable(func(ctx context.Context, c course.SettingsHaver, cfg *course.RequestConfig) (result.ValidationResult, error) {
		s, err := c.GetSettings(ctx, cfg)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch settings: %w", err)
		}
		actual, ok := s[setting]
		if !ok {
			return result.New(result.StatusUnknown, result.Options{
				NotFailureMessage: fmt.Sprintf("setting %s is not reported for this course", setting),
				Links:             []string{SettingsURL(c)},
			}), nil
		}
		return result.New(result.Bool(valuesEqual(actual, expected)), result.Options{
			FailureMessage:    fmt.Sprintf("setting %s is %v, expected %v", setting, actual, expected),
			NotFailureMessage: fmt.Sprintf("setting %s is %v", setting, expected),
			Links:             []string{SettingsURL(c)},
			UserData:          actual,
		}), nil
	})

	fix := rule.CapableFix(func(ctx context.Context, c course.SettingsHaver, _ *result.ValidationResult) (result.ValidationResult, error) {
		s, err := c.GetSettings(ctx, nil)
		if err != nil {
			return result.ValidationResult{}, fmt.Errorf("fetch settings: %w", err)
		}
		actual, ok := s[setting]
		if !ok {
			return result.NotRun(fmt.Sprintf("setting %s is not reported for this course; nothing to fix", setting)), nil
		}
		if valuesEqual(actual, expected) {
			return result.NotRun(fmt.Sprintf("setting %s is already %v", setting, expected)), nil
		}
		updated, err := c.UpdateSettings(ctx, course.Settings{setting: expected})
		if err != nil {
			return result.ErrorResult(fmt.Errorf("update setting %s: %w", setting, err), SettingsURL(c)), nil
		}
		return result.New(result.Bool(valuesEqual(updated[setting], expected)), result.Options{
			FailureMessage:    fmt.Sprintf("LMS reported %s as %v after the update", setting, updated[setting]),
			NotFailureMessage: fmt.Sprintf("set %s to %v", setting, expected),
			Links:             []string{SettingsURL(c)},
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

// valuesEqual compares setting values, treating numbers of any type as equal
// when they have the same value. Decoded JSON numbers are float64.
func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
