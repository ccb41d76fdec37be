// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package contentrule

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/coursefix/internal/course/coursetest"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

var colour = textmatch.Global(`colou?r`)

// stubbornReplacer fixes everything except text containing "stubborn".
type stubbornReplacer struct{}

func (stubbornReplacer) Replace(p *textmatch.Pattern, text string) string {
	if strings.Contains(text, "stubborn") {
		return text
	}
	return p.ReplaceTemplate(text, "hue")
}

func bodyLines(r result.ValidationResult) []string {
	var out []string
	for _, m := range r.Messages {
		out = append(out, m.BodyLines...)
	}
	return out
}

func TestBadContentRun_ScansEverySource(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	page := c.AddPage("Welcome", "<p>pick a colour</p>")
	assignment := c.AddAssignment("Paint", "<p>any color works</p>", 10)
	c.AddQuiz("Clean quiz", "<p>nothing here</p>")
	c.Syllabus = "<p>clean syllabus</p>"

	res, err := BadContentRun(colour, nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, []string{page.URL, assignment.URL}, res.Links)
	assert.Equal(t, []string{page.URL}, res.Messages[0].Links)
	assert.Contains(t, res.Messages[0].BodyLines[0], "colour")
}

func TestBadContentRun_TypedGetter(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	page := c.AddPage("Welcome", "<p>pick a colour</p>")
	c.AddAssignment("Paint", "<p>any color works</p>", 10)
	c.Syllabus = "<p>clean syllabus</p>"

	res, err := BadContentRun(colour, Pages)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	require.Len(t, res.Messages, 1, "only the page is scanned; the syllabus is clean")
	assert.Equal(t, []string{page.URL}, res.Links)
	assert.Contains(t, c.Calls(), "GetPages")
	assert.NotContains(t, c.Calls(), "GetContent")
}

func TestBadContentRun_SyllabusMatch(t *testing.T) {
	c := coursetest.New(7, "ANIM301")
	c.Syllabus = "<p>wear a colour</p>"

	res, err := BadContentRun(colour, nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, []string{"https://lms.test/courses/7/assignments/syllabus"}, res.Messages[0].Links)
	assert.Empty(t, res.Links, "links list offending content items only")
}

func TestBadContentRun_Passes(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	c.AddPage("Welcome", "<p>clean</p>")
	c.AddPage("Empty", "").NoBody = true

	res, err := BadContentRun(colour, nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusPassed, res.Success)
}

func TestBadContentRun_FetchError(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	c.GetContentErr = errors.New("503 service unavailable")

	_, err := BadContentRun(colour, nil)(context.Background(), c, nil)
	assert.ErrorContains(t, err, "503")
}

func TestBadContentRun_MissingCapability(t *testing.T) {
	_, err := BadContentRun(colour, nil)(context.Background(), struct{}{}, nil)
	assert.ErrorIs(t, err, rule.ErrMissingCapability)
}

func TestBadContentFix_PartialFailure(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	first := c.AddPage("First", "<p>red colour</p>")
	stubborn := c.AddPage("Stubborn", "<p>stubborn colour</p>")
	third := c.AddAssignment("Third", "<p>blue color</p>", 5)

	res, err := BadContentFix(colour, stubbornReplacer{}, nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	assert.Equal(t, []string{
		"fix succeeded for First",
		"fix broken for Stubborn",
		"fix succeeded for Third",
	}, bodyLines(res))

	assert.Equal(t, []string{"<p>red hue</p>"}, first.Updates())
	assert.Empty(t, stubborn.Updates(), "broken fixes are never saved")
	assert.Equal(t, []string{"<p>blue hue</p>"}, third.Updates())
	assert.Equal(t, []string{first.URL, third.URL}, res.Links)
}

func TestBadContentFix_PersistenceErrorAborts(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	first := c.AddPage("First", "<p>colour</p>")
	second := c.AddPage("Second", "<p>colour</p>")
	second.UpdateErr = errors.New("403 forbidden")
	third := c.AddPage("Third", "<p>colour</p>")

	res, err := BadContentFix(colour, textmatch.Template("hue"), Pages)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	assert.Contains(t, res.Messages[0].BodyLines[0], "403 forbidden")
	assert.Equal(t, []string{second.URL}, res.Links)

	assert.Len(t, first.Updates(), 1)
	assert.Empty(t, third.Updates(), "items after a failed save are not processed")
}

func TestBadContentFix_NothingToFix(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	c.AddPage("Clean", "<p>fine</p>")
	c.Syllabus = "<p>fine</p>"

	res, err := BadContentFix(colour, textmatch.Template("hue"), nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusNotRun, res.Success)
	assert.NotContains(t, c.Calls(), "ChangeSyllabus")
}

func TestBadContentFix_FixesSyllabusWithoutGetter(t *testing.T) {
	c := coursetest.New(3, "ANIM301")
	c.Syllabus = "<p>colour and colour</p>"

	res, err := BadContentFix(colour, textmatch.Template("hue"), nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusPassed, res.Success)
	assert.Equal(t, "<p>hue and hue</p>", c.Syllabus)
	assert.Equal(t, []string{"fix succeeded for syllabus"}, bodyLines(res))

	// A typed getter leaves the syllabus alone.
	c.Syllabus = "<p>colour</p>"
	res, err = BadContentFix(colour, textmatch.Template("hue"), Pages)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusNotRun, res.Success)
	assert.Equal(t, "<p>colour</p>", c.Syllabus)
}

func TestBadContentFix_ThenRunPasses(t *testing.T) {
	c := coursetest.New(1, "ANIM301")
	c.AddPage("A", "<p>colour</p>")
	c.AddDiscussion("B", "<p>color</p>")
	c.Syllabus = "<p>colour</p>"

	fixed, err := BadContentFix(colour, textmatch.Template("hue"), nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, fixed.Success.Truthy())

	res, err := BadContentRun(colour, nil)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusPassed, res.Success)
}

func TestBadSyllabusRunAndFix(t *testing.T) {
	c := coursetest.New(4, "ANIM301")
	c.Syllabus = "<p>Email help@old.example.edu</p>"
	bad := textmatch.Global(`help@old\.example\.edu`)

	res, err := BadSyllabusRun(bad)(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	assert.Equal(t, []string{"https://lms.test/courses/4/assignments/syllabus"}, res.Links)

	fixed, err := BadSyllabusFix(bad, textmatch.Template("support@example.edu"))(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusPassed, fixed.Success)
	assert.Equal(t, "<p>Email support@example.edu</p>", c.Syllabus)

	again, err := BadSyllabusFix(bad, textmatch.Template("support@example.edu"))(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusNotRun, again.Success)
}

func TestBadSyllabusFix_Broken(t *testing.T) {
	c := coursetest.New(4, "ANIM301")
	c.Syllabus = "<p>colour</p>"

	res, err := BadSyllabusFix(colour, textmatch.Template("color"))(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	assert.Equal(t, "fix broken for syllabus", res.Messages[0].BodyLines[0])
	assert.NotContains(t, c.Calls(), "ChangeSyllabus")
}

func TestBadSyllabusFix_SaveError(t *testing.T) {
	c := coursetest.New(4, "ANIM301")
	c.Syllabus = "<p>colour</p>"
	c.ChangeSyllabusErr = errors.New("timeout")

	res, err := BadSyllabusFix(colour, textmatch.Template("hue"))(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StatusFailed, res.Success)
	assert.Equal(t, "save syllabus: timeout", res.Messages[0].BodyLines[0])
}

func TestTextRule(t *testing.T) {
	r := TextRule{Name: "colour", Topic: rule.TopicContent, Bad: colour, Replace: textmatch.Template("hue")}.Rule()
	assert.True(t, r.CanFix())
	assert.NotNil(t, r.Run)

	checkOnly := TextRule{Name: "colour-check", Bad: colour, SyllabusOnly: true}.Rule()
	assert.False(t, checkOnly.CanFix())
}
