// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/course/coursetest"
	"github.com/davetashner/coursefix/internal/result"
)

func passingRun(_ context.Context, _ any, _ *course.RequestConfig) (result.ValidationResult, error) {
	return result.Passed("ok"), nil
}

func TestRegisterAndGet(t *testing.T) {
	resetForTesting()
	t.Cleanup(resetForTesting)

	Register(Rule{Name: "test-rule", Topic: TopicContent, Run: passingRun})

	got, ok := Get("test-rule")
	require.True(t, ok)
	assert.Equal(t, "test-rule", got.Name)
	assert.False(t, got.CanFix())

	_, ok = Get("nonexistent")
	assert.False(t, ok)
}

func TestRegisterPanics(t *testing.T) {
	resetForTesting()
	t.Cleanup(resetForTesting)

	Register(Rule{Name: "dup", Run: passingRun})

	assert.Panics(t, func() { Register(Rule{Name: "dup", Run: passingRun}) })
	assert.Panics(t, func() { Register(Rule{Run: passingRun}) })
	assert.Panics(t, func() { Register(Rule{Name: "no-run"}) })
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	resetForTesting()
	t.Cleanup(resetForTesting)

	Register(Rule{Name: "zeta", Topic: TopicSyllabus, Run: passingRun})
	Register(Rule{Name: "alpha", Topic: TopicContent, Run: passingRun})
	Register(Rule{Name: "mid", Topic: TopicSyllabus, Run: passingRun})

	var names []string
	for _, r := range All() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, Names())

	syl := ByTopic(TopicSyllabus)
	require.Len(t, syl, 2)
	assert.Equal(t, "zeta", syl[0].Name)
	assert.Equal(t, "mid", syl[1].Name)
}

func TestSelect(t *testing.T) {
	resetForTesting()
	t.Cleanup(resetForTesting)

	Register(Rule{Name: "a", Run: passingRun})
	Register(Rule{Name: "b", Run: passingRun})

	all, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	picked, err := Select([]string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, "b", picked[0].Name)
	assert.Equal(t, "a", picked[1].Name)

	_, err = Select([]string{"missing"})
	assert.ErrorContains(t, err, `unknown rule: "missing"`)
}

func TestAppliesTo(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		code  string
		want  bool
	}{
		{"no restriction", nil, "anything", true},
		{"exact", []string{"PROF590"}, "PROF590", true},
		{"decorated code", []string{"PROF590"}, "Campus prof-590 (Fall)", true},
		{"lower-case restriction", []string{"anim301"}, "BP_ANIM 301", true},
		{"substring of restriction", []string{"ANIM"}, "ANIM 301", true},
		{"other course", []string{"PROF590"}, "ANIM301", false},
		{"term-prefixed code", []string{"PROF590"}, "FALL2024 PROF590", true},
		{"any of several", []string{"X100", "ANIM301"}, "ANIM301", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{Name: "r", CourseCodes: tt.codes, Run: passingRun}
			assert.Equal(t, tt.want, r.AppliesTo(tt.code))
		})
	}
}

func TestFilterForCourse(t *testing.T) {
	rules := []Rule{
		{Name: "general", Run: passingRun},
		{Name: "prof", CourseCodes: []string{"PROF590"}, Run: passingRun},
		{Name: "anim", CourseCodes: []string{"ANIM301"}, Run: passingRun},
	}
	kept := FilterForCourse(rules, "PROF 590")
	require.Len(t, kept, 2)
	assert.Equal(t, "general", kept[0].Name)
	assert.Equal(t, "prof", kept[1].Name)
}

func TestCapable(t *testing.T) {
	run := Capable(func(_ context.Context, c course.SettingsHaver, _ *course.RequestConfig) (result.ValidationResult, error) {
		return result.Passed(c.CourseCode()), nil
	})

	res, err := run(context.Background(), coursetest.New(1, "ANIM301"), nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusPassed, res.Success)
	assert.Equal(t, "ANIM301", res.Messages[0].BodyLines[0])

	_, err = run(context.Background(), struct{}{}, nil)
	assert.True(t, errors.Is(err, ErrMissingCapability))
	assert.Contains(t, err.Error(), "course.SettingsHaver")
}

func TestCapableFix(t *testing.T) {
	fix := CapableFix(func(_ context.Context, c course.Identity, prev *result.ValidationResult) (result.ValidationResult, error) {
		assert.Nil(t, prev)
		return result.Passed("fixed"), nil
	})
	res, err := fix(context.Background(), coursetest.New(2, "X101"), nil)
	require.NoError(t, err)
	assert.True(t, res.Success.Truthy())

	_, err = fix(context.Background(), 42, nil)
	assert.ErrorIs(t, err, ErrMissingCapability)
}

func TestApplyWithoutFix(t *testing.T) {
	r := Rule{Name: "check-only", Run: passingRun}
	_, err := r.Apply(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoFix)

	_, err = Rule{Name: "empty"}.Check(context.Background(), nil, nil)
	assert.Error(t, err)
}
