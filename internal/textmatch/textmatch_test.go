// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package textmatch

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks.
var (
	_ Matcher  = (*Pattern)(nil)
	_ Matcher  = Contains("")
	_ Replacer = Template("")
	_ Replacer = MatchFunc(nil)
)

func TestMatchHighlights_WindowClipping(t *testing.T) {
	got := MatchHighlights("bob", Global("b"), 2, 1)
	assert.Equal(t, []string{"bo", "ob"}, got)
}

func TestMatchHighlights_NonGlobalReturnsFirstOnly(t *testing.T) {
	got := MatchHighlights("bob", Once("b"), 2, 1)
	assert.Equal(t, []string{"bo"}, got)
}

func TestMatchHighlights_NoMatch(t *testing.T) {
	got := MatchHighlights("alice", Global("b"), 100, 30)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatchHighlights_CollapsesLongWindows(t *testing.T) {
	content := strings.Repeat("a", 50) + "NEEDLE" + strings.Repeat("z", 50)
	got := MatchHighlights(content, Global("NEEDLE"), 10, 40)
	require.Len(t, got, 1)
	assert.Equal(t, "aaaaa...zzzzz", got[0])
}

func TestMatchHighlights_ExactLengthIsNotCollapsed(t *testing.T) {
	got := MatchHighlights("xxabcxx", Global("abc"), 7, 2)
	assert.Equal(t, []string{"xxabcxx"}, got)
}

func TestMatchHighlights_MultiByte(t *testing.T) {
	got := MatchHighlights("café olé", Global("olé"), 100, 2)
	assert.Equal(t, []string{"é olé"}, got)
}

func TestMatchHighlights_ReusedPatternIsStable(t *testing.T) {
	p := Global("b")
	first := MatchHighlights("bob", p, 2, 1)
	second := MatchHighlights("bob", p, 2, 1)
	assert.Equal(t, first, second, "a shared pattern must not carry state between calls")
	assert.True(t, p.MatchString("b"))
	assert.True(t, p.MatchString("b"))
}

func TestPattern_ConcurrentUse(t *testing.T) {
	p := Global(`(?i)hello`)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, p.FindIndexes("hello HELLO"), 2)
		}()
	}
	wg.Wait()
}

func TestPattern_NonGlobal(t *testing.T) {
	p := Global("a")
	ng := p.NonGlobal()
	assert.False(t, ng.IsGlobal())
	assert.True(t, p.IsGlobal(), "NonGlobal must not mutate the original")
	assert.Same(t, ng, ng.NonGlobal())
}

func TestPattern_ReplaceTemplate(t *testing.T) {
	assert.Equal(t, "x-b-x", Global("a").ReplaceTemplate("a-b-a", "x"))
	assert.Equal(t, "x-b-a", Once("a").ReplaceTemplate("a-b-a", "x"))
	assert.Equal(t, "[a]-b-a", Once("(a)").ReplaceTemplate("a-b-a", "[${1}]"))
	assert.Equal(t, "none", Once("a").ReplaceTemplate("none", "x"))
}

func TestPattern_ReplaceFunc(t *testing.T) {
	upper := strings.ToUpper
	assert.Equal(t, "A-b-A", Global("a").ReplaceFunc("a-b-a", upper))
	assert.Equal(t, "A-b-a", Once("a").ReplaceFunc("a-b-a", upper))
	assert.Equal(t, "none", Once("a").ReplaceFunc("none", upper))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Grading").MatchString("Grading Policies"))
	assert.False(t, Contains("grading").MatchString("Grading Policies"))
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "Hello World"},
		{"moose MuncH", "Moose MuncH"},
		{"ALREADY UP", "ALREADY UP"},
		{"o'neil", "O'Neil"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), "Capitalize(%q)", tt.in)
	}
}

func TestPreserveCapsReplace(t *testing.T) {
	p := Global(`(?i)hello`)
	fn := PreserveCapsReplace(p, "goodbye")

	tests := []struct {
		in, want string
	}{
		{"Hello hello There", "Goodbye goodbye There"},
		{"HELLO HELLO THERE", "GOODBYE GOODBYE THERE"},
		{"hElLo", "goodbye"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fn.Replace(p, tt.in), "input %q", tt.in)
	}
}

func TestPreserveCapsReplace_MultiWordReplacement(t *testing.T) {
	p := Global(`(?i)learning materials`)
	fn := PreserveCapsReplace(p, "course materials")
	assert.Equal(t, "See Course Materials and course materials.",
		fn.Replace(p, "See Learning Materials and learning materials."))
}

// Group references expand before the casing decision, and the decision uses
// the whole match. An all-caps capture does not make the rest upper-case.
func TestPreserveCapsReplace_CaptureGroupCaseNotTracked(t *testing.T) {
	p := Global(`(?i)hello (world)`)
	fn := PreserveCapsReplace(p, "${1} goodbye")
	assert.Equal(t, "WORLD goodbye", fn.Replace(p, "hello WORLD"))
	assert.Equal(t, "WORLD GOODBYE", fn.Replace(p, "HELLO WORLD"))
}
