// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package lms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/davetashner/coursefix/internal/course"
)

// Course is one Canvas course.
type Course struct {
	client *Client
	id     int
	name   string
	code   string
}

// Compile-time interface checks.
var (
	_ course.ContentHaver     = (*Course)(nil)
	_ course.PagesHaver       = (*Course)(nil)
	_ course.AssignmentsHaver = (*Course)(nil)
	_ course.QuizzesHaver     = (*Course)(nil)
	_ course.DiscussionsHaver = (*Course)(nil)
	_ course.TabsHaver        = (*Course)(nil)
	_ course.SettingsHaver    = (*Course)(nil)
	_ course.RubricsHaver     = (*Course)(nil)
)

type courseJSON struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CourseCode   string `json:"course_code"`
	SyllabusBody string `json:"syllabus_body"`
}

// Course fetches the course with the given id.
func (c *Client) Course(ctx context.Context, id int) (*Course, error) {
	var cj courseJSON
	if err := c.get(ctx, fmt.Sprintf("/courses/%d", id), nil, &cj); err != nil {
		return nil, fmt.Errorf("fetch course %d: %w", id, err)
	}
	return &Course{client: c, id: cj.ID, name: cj.Name, code: cj.CourseCode}, nil
}

// ID returns the course id.
func (co *Course) ID() int { return co.id }

// Name returns the course name.
func (co *Course) Name() string { return co.name }

// CourseCode returns the full course code.
func (co *Course) CourseCode() string { return co.code }

// HTMLURL returns the course page.
func (co *Course) HTMLURL() string {
	return fmt.Sprintf("%s/courses/%d", co.client.BaseURL(), co.id)
}

func (co *Course) path(format string, args ...any) string {
	return fmt.Sprintf("/courses/%d", co.id) + fmt.Sprintf(format, args...)
}

// GetSyllabus returns the syllabus HTML.
func (co *Course) GetSyllabus(ctx context.Context, _ *course.RequestConfig) (string, error) {
	var cj courseJSON
	cfg := &course.RequestConfig{Include: []string{"syllabus_body"}}
	if err := co.client.get(ctx, co.path(""), cfg, &cj); err != nil {
		return "", err
	}
	return cj.SyllabusBody, nil
}

// ChangeSyllabus replaces the syllabus HTML.
func (co *Course) ChangeSyllabus(ctx context.Context, html string, _ *course.RequestConfig) (*course.SyllabusUpdate, error) {
	var cj courseJSON
	payload := map[string]any{"course": map[string]string{"syllabus_body": html}}
	if err := co.client.send(ctx, http.MethodPut, co.path(""), payload, &cj); err != nil {
		return nil, err
	}
	return &course.SyllabusUpdate{CourseID: cj.ID, SyllabusBody: cj.SyllabusBody}, nil
}

// GetContent returns pages, assignments, quizzes and discussions.
func (co *Course) GetContent(ctx context.Context, cfg *course.RequestConfig) ([]course.ContentItem, error) {
	var all []course.ContentItem
	pages, err := co.GetPages(ctx, cfg)
	if err != nil {
		return nil, err
	}
	all = append(all, pages...)
	assignments, err := co.GetAssignments(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		all = append(all, a)
	}
	quizzes, err := co.GetQuizzes(ctx, cfg)
	if err != nil {
		return nil, err
	}
	all = append(all, quizzes...)
	discussions, err := co.GetDiscussions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return append(all, discussions...), nil
}

type pageJSON struct {
	PageID  int     `json:"page_id"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Body    *string `json:"body"`
	HTMLURL string  `json:"html_url"`
}

// GetPages lists wiki pages. Canvas returns page bodies only when "body" is
// included.
func (co *Course) GetPages(ctx context.Context, cfg *course.RequestConfig) ([]course.ContentItem, error) {
	pages, err := list[pageJSON](ctx, co.client, co.path("/pages"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	items := make([]course.ContentItem, len(pages))
	for i, p := range pages {
		items[i] = &item{
			course: co, kind: course.KindPage, id: p.PageID, name: p.Title, body: p.Body, htmlURL: p.HTMLURL,
			updatePath: co.path("/pages/%s", url.PathEscape(p.URL)), wrapper: "wiki_page", field: "body",
		}
	}
	return items, nil
}

type assignmentJSON struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	HTMLURL        string  `json:"html_url"`
	PointsPossible float64 `json:"points_possible"`
}

// GetAssignments lists assignments.
func (co *Course) GetAssignments(ctx context.Context, cfg *course.RequestConfig) ([]course.Assignment, error) {
	as, err := list[assignmentJSON](ctx, co.client, co.path("/assignments"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	items := make([]course.Assignment, len(as))
	for i, a := range as {
		items[i] = &item{
			course: co, kind: course.KindAssignment, id: a.ID, name: a.Name, body: a.Description, htmlURL: a.HTMLURL,
			points: a.PointsPossible, updatePath: co.path("/assignments/%d", a.ID), wrapper: "assignment", field: "description",
		}
	}
	return items, nil
}

type quizJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	HTMLURL     string  `json:"html_url"`
}

// GetQuizzes lists quizzes.
func (co *Course) GetQuizzes(ctx context.Context, cfg *course.RequestConfig) ([]course.ContentItem, error) {
	qs, err := list[quizJSON](ctx, co.client, co.path("/quizzes"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	items := make([]course.ContentItem, len(qs))
	for i, q := range qs {
		items[i] = &item{
			course: co, kind: course.KindQuiz, id: q.ID, name: q.Title, body: q.Description, htmlURL: q.HTMLURL,
			updatePath: co.path("/quizzes/%d", q.ID), wrapper: "quiz", field: "description",
		}
	}
	return items, nil
}

type discussionJSON struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	Message *string `json:"message"`
	HTMLURL string  `json:"html_url"`
}

// GetDiscussions lists discussion topics.
func (co *Course) GetDiscussions(ctx context.Context, cfg *course.RequestConfig) ([]course.ContentItem, error) {
	ds, err := list[discussionJSON](ctx, co.client, co.path("/discussion_topics"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list discussions: %w", err)
	}
	items := make([]course.ContentItem, len(ds))
	for i, d := range ds {
		items[i] = &item{
			course: co, kind: course.KindDiscussion, id: d.ID, name: d.Title, body: d.Message, htmlURL: d.HTMLURL,
			updatePath: co.path("/discussion_topics/%d", d.ID), field: "message",
		}
	}
	return items, nil
}

// GetTabs lists navigation tabs.
func (co *Course) GetTabs(ctx context.Context, cfg *course.RequestConfig) ([]course.Tab, error) {
	tabs, err := list[course.Tab](ctx, co.client, co.path("/tabs"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	return tabs, nil
}

// UpdateTab hides or shows a navigation tab.
func (co *Course) UpdateTab(ctx context.Context, id string, hidden bool) (*course.Tab, error) {
	var tab course.Tab
	if err := co.client.send(ctx, http.MethodPut, co.path("/tabs/%s", url.PathEscape(id)), map[string]bool{"hidden": hidden}, &tab); err != nil {
		return nil, fmt.Errorf("update tab %s: %w", id, err)
	}
	return &tab, nil
}

// GetSettings returns the course settings.
func (co *Course) GetSettings(ctx context.Context, cfg *course.RequestConfig) (course.Settings, error) {
	s := course.Settings{}
	if err := co.client.get(ctx, co.path("/settings"), cfg, &s); err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	return s, nil
}

// UpdateSettings writes the given settings and returns the full settings the
// LMS reports back.
func (co *Course) UpdateSettings(ctx context.Context, s course.Settings) (course.Settings, error) {
	out := course.Settings{}
	if err := co.client.send(ctx, http.MethodPut, co.path("/settings"), s, &out); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return out, nil
}

// GetRubrics lists rubrics with their associations.
func (co *Course) GetRubrics(ctx context.Context, cfg *course.RequestConfig) ([]course.Rubric, error) {
	if cfg == nil {
		cfg = &course.RequestConfig{}
	}
	if !cfg.Includes("associations") {
		withAssoc := *cfg
		withAssoc.Include = append([]string{"associations"}, cfg.Include...)
		cfg = &withAssoc
	}
	rubrics, err := list[course.Rubric](ctx, co.client, co.path("/rubrics"), cfg)
	if err != nil {
		return nil, fmt.Errorf("list rubrics: %w", err)
	}
	return rubrics, nil
}

// UpdateRubricAssociation saves an association's grading flags.
func (co *Course) UpdateRubricAssociation(ctx context.Context, a course.RubricAssociation) error {
	payload := map[string]any{"rubric_association": map[string]any{
		"rubric_id":        a.RubricID,
		"association_id":   a.AssociationID,
		"association_type": a.AssociationType,
		"use_for_grading":  a.UseForGrading,
	}}
	if err := co.client.send(ctx, http.MethodPut, co.path("/rubric_associations/%d", a.ID), payload, nil); err != nil {
		return fmt.Errorf("update rubric association %d: %w", a.ID, err)
	}
	return nil
}

// item is a content item backed by the API.
type item struct {
	course     *Course
	kind       course.Kind
	id         int
	name       string
	body       *string
	htmlURL    string
	points     float64
	updatePath string
	wrapper    string // JSON object the field is nested in; empty for top level
	field      string
}

func (it *item) Kind() course.Kind       { return it.kind }
func (it *item) ID() int                 { return it.id }
func (it *item) Name() string            { return it.name }
func (it *item) HTMLURL() string         { return it.htmlURL }
func (it *item) PointsPossible() float64 { return it.points }

func (it *item) Body() (string, bool) {
	if it.body == nil {
		return "", false
	}
	return *it.body, true
}

func (it *item) UpdateContent(ctx context.Context, body string) error {
	var payload any = map[string]string{it.field: body}
	if it.wrapper != "" {
		payload = map[string]any{it.wrapper: payload}
	}
	if err := it.course.client.send(ctx, http.MethodPut, it.updatePath, payload, nil); err != nil {
		return fmt.Errorf("update %s %d: %w", it.kind, it.id, err)
	}
	it.body = &body
	return nil
}

// ParseCourseURL extracts the base URL and course id from a course link such
// as https://canvas.example.edu/courses/123/pages.
func ParseCourseURL(raw string) (base string, id int, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, fmt.Errorf("parse course url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "courses" {
			if n, err := strconv.Atoi(parts[i+1]); err == nil && n > 0 {
				return u.Scheme + "://" + u.Host, n, nil
			}
		}
	}
	return "", 0, fmt.Errorf("no course id in %q", raw)
}
