// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
)

// rubricCourse is what the rubric rule needs: rubrics and the assignments they
// grade.
type rubricCourse interface {
	course.RubricsHaver
	course.AssignmentsHaver
}

// rubricFinding is one assignment rubric that is not used for grading.
type rubricFinding struct {
	Rubric      course.Rubric
	Association course.RubricAssociation
	Assignment  course.Assignment
}

func assignmentURL(c course.Identity, id int) string {
	return fmt.Sprintf("%s/assignments/%d", strings.TrimSuffix(c.HTMLURL(), "/"), id)
}

func checkRubrics(ctx context.Context, c rubricCourse, cfg *course.RequestConfig) (result.ValidationResult, error) {
	rubrics, err := c.GetRubrics(ctx, cfg)
	if err != nil {
		return result.ValidationResult{}, fmt.Errorf("fetch rubrics: %w", err)
	}
	assignments, err := c.GetAssignments(ctx, &course.RequestConfig{PerPage: course.DefaultPerPage})
	if err != nil {
		return result.ValidationResult{}, fmt.Errorf("fetch assignments: %w", err)
	}
	byID := make(map[int]course.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID()] = a
	}

	var (
		findings []rubricFinding
		messages []result.MessageResult
		links    []string
	)
	for _, r := range rubrics {
		for _, assoc := range r.Associations {
			if assoc.AssociationType != "Assignment" {
				continue
			}
			a, ok := byID[assoc.AssociationID]
			if !ok {
				continue
			}
			var lines []string
			if !assoc.UseForGrading {
				findings = append(findings, rubricFinding{Rubric: r, Association: assoc, Assignment: a})
				lines = append(lines, fmt.Sprintf("rubric %q is not used for grading %q", r.Title, a.Name()))
			}
			if r.PointsPossible != a.PointsPossible() {
				lines = append(lines, fmt.Sprintf("rubric %q is worth %g points but %q is worth %g",
					r.Title, r.PointsPossible, a.Name(), a.PointsPossible()))
			}
			if len(lines) > 0 {
				url := assignmentURL(c, a.ID())
				messages = append(messages, result.MessageResult{BodyLines: lines, Links: []string{url}})
				links = append(links, url)
			}
		}
	}

	return result.New(result.Bool(len(messages) == 0), result.Options{
		FailureMessage:    messages,
		NotFailureMessage: "every assignment rubric is used for grading and matches its points",
		Links:             links,
		UserData:          findings,
	}), nil
}

func fixRubrics(ctx context.Context, c rubricCourse, prev *result.ValidationResult) (result.ValidationResult, error) {
	if prev == nil {
		r, err := checkRubrics(ctx, c, nil)
		if err != nil {
			return result.ValidationResult{}, err
		}
		prev = &r
	}
	findings, _ := prev.UserData.([]rubricFinding)
	if len(findings) == 0 {
		return result.NotRun("no rubric associations need to be used for grading"), nil
	}

	var (
		messages []result.MessageResult
		links    []string
	)
	for _, f := range findings {
		assoc := f.Association
		assoc.UseForGrading = true
		url := assignmentURL(c, f.Assignment.ID())
		if err := c.UpdateRubricAssociation(ctx, assoc); err != nil {
			return result.ErrorResult(fmt.Errorf("update rubric %q: %w", f.Rubric.Title, err), url), nil
		}
		messages = append(messages, result.MessageResult{
			BodyLines: []string{fmt.Sprintf("rubric %q now grades %q", f.Rubric.Title, f.Assignment.Name())},
			Links:     []string{url},
		})
		links = append(links, url)
	}
	return result.New(result.StatusPassed, result.Options{
		NotFailureMessage: messages,
		Links:             links,
	}), nil
}

func rubricGradingRule() rule.Rule {
	return rule.Rule{
		Name:        "content-rubric-grading",
		Description: "Assignment rubrics are used for grading and carry the assignment's points.",
		Topic:       rule.TopicContent,
		Scope:       rule.ScopeCourse,
		Run:         rule.Capable(checkRubrics),
		Fix:         rule.CapableFix(fixRubrics),
	}
}
