// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package coursetest provides an in-memory course implementing every
// capability interface, for tests of rules, the runner and the CLI.
package coursetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/davetashner/coursefix/internal/course"
)

// Item is an in-memory content item. It satisfies course.ContentItem and
// course.Assignment.
type Item struct {
	ItemKind course.Kind
	ItemID   int
	Title    string
	Content  string
	NoBody   bool
	URL      string
	Points   float64

	// UpdateErr, when set, is returned by UpdateContent without saving.
	UpdateErr error

	mu      sync.Mutex
	updates []string
}

// Compile-time interface checks.
var (
	_ course.ContentItem = (*Item)(nil)
	_ course.Assignment  = (*Item)(nil)
)

// Kind returns the item kind.
func (i *Item) Kind() course.Kind { return i.ItemKind }

// ID returns the item id.
func (i *Item) ID() int { return i.ItemID }

// Name returns the item title.
func (i *Item) Name() string { return i.Title }

// HTMLURL returns the item URL.
func (i *Item) HTMLURL() string { return i.URL }

// PointsPossible returns the assignment points.
func (i *Item) PointsPossible() float64 { return i.Points }

// Body returns the current content unless NoBody is set.
func (i *Item) Body() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.NoBody {
		return "", false
	}
	return i.Content, true
}

// UpdateContent stores body and records the write.
func (i *Item) UpdateContent(_ context.Context, body string) error {
	if i.UpdateErr != nil {
		return i.UpdateErr
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Content = body
	i.NoBody = false
	i.updates = append(i.updates, body)
	return nil
}

// Updates returns every body written through UpdateContent.
func (i *Item) Updates() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, len(i.updates))
	copy(out, i.updates)
	return out
}

// Course is an in-memory course. Exported fields may be set directly before
// the course is shared with rules; afterwards use the methods.
type Course struct {
	CourseID int
	Code     string
	URL      string

	Syllabus    string
	Pages       []*Item
	Assignments []*Item
	Quizzes     []*Item
	Discussions []*Item
	Tabs        []course.Tab
	Settings    course.Settings
	Rubrics     []course.Rubric

	// EchoCourseID overrides the course id ChangeSyllabus reports back.
	EchoCourseID int

	// Error injection.
	GetSyllabusErr    error
	ChangeSyllabusErr error
	GetContentErr     error
	GetSettingsErr    error
	UpdateSettingsErr error

	mu    sync.Mutex
	calls []string
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

// New returns an empty course with the given id and course code.
func New(id int, code string) *Course {
	return &Course{
		CourseID: id,
		Code:     code,
		URL:      fmt.Sprintf("https://lms.test/courses/%d", id),
		Settings: course.Settings{},
	}
}

func (c *Course) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// Calls returns the names of the capability methods invoked so far.
func (c *Course) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *Course) newItem(kind course.Kind, name, body string) *Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.Pages) + len(c.Assignments) + len(c.Quizzes) + len(c.Discussions) + 1
	return &Item{
		ItemKind: kind,
		ItemID:   n,
		Title:    name,
		Content:  body,
		URL:      fmt.Sprintf("%s/%ss/%d", c.URL, kind, n),
	}
}

// AddPage appends a page and returns it.
func (c *Course) AddPage(name, body string) *Item {
	it := c.newItem(course.KindPage, name, body)
	c.Pages = append(c.Pages, it)
	return it
}

// AddAssignment appends an assignment and returns it.
func (c *Course) AddAssignment(name, body string, points float64) *Item {
	it := c.newItem(course.KindAssignment, name, body)
	it.Points = points
	c.Assignments = append(c.Assignments, it)
	return it
}

// AddQuiz appends a quiz and returns it.
func (c *Course) AddQuiz(name, body string) *Item {
	it := c.newItem(course.KindQuiz, name, body)
	c.Quizzes = append(c.Quizzes, it)
	return it
}

// AddDiscussion appends a discussion topic and returns it.
func (c *Course) AddDiscussion(name, body string) *Item {
	it := c.newItem(course.KindDiscussion, name, body)
	c.Discussions = append(c.Discussions, it)
	return it
}

// ID returns the course id.
func (c *Course) ID() int { return c.CourseID }

// CourseCode returns the full course code.
func (c *Course) CourseCode() string { return c.Code }

// HTMLURL returns the course URL.
func (c *Course) HTMLURL() string { return c.URL }

// GetSyllabus returns the syllabus HTML.
func (c *Course) GetSyllabus(_ context.Context, _ *course.RequestConfig) (string, error) {
	c.record("GetSyllabus")
	if c.GetSyllabusErr != nil {
		return "", c.GetSyllabusErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Syllabus, nil
}

// ChangeSyllabus stores html and echoes it back.
func (c *Course) ChangeSyllabus(_ context.Context, html string, _ *course.RequestConfig) (*course.SyllabusUpdate, error) {
	c.record("ChangeSyllabus")
	if c.ChangeSyllabusErr != nil {
		return nil, c.ChangeSyllabusErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Syllabus = html
	id := c.CourseID
	if c.EchoCourseID != 0 {
		id = c.EchoCourseID
	}
	return &course.SyllabusUpdate{CourseID: id, SyllabusBody: html}, nil
}

// GetContent returns pages, assignments, quizzes and discussions, in that
// order.
func (c *Course) GetContent(_ context.Context, _ *course.RequestConfig) ([]course.ContentItem, error) {
	c.record("GetContent")
	if c.GetContentErr != nil {
		return nil, c.GetContentErr
	}
	var items []course.ContentItem
	for _, group := range [][]*Item{c.Pages, c.Assignments, c.Quizzes, c.Discussions} {
		for _, it := range group {
			items = append(items, it)
		}
	}
	return items, nil
}

func asContent(items []*Item) []course.ContentItem {
	out := make([]course.ContentItem, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// GetPages returns the pages.
func (c *Course) GetPages(_ context.Context, _ *course.RequestConfig) ([]course.ContentItem, error) {
	c.record("GetPages")
	return asContent(c.Pages), nil
}

// GetAssignments returns the assignments.
func (c *Course) GetAssignments(_ context.Context, _ *course.RequestConfig) ([]course.Assignment, error) {
	c.record("GetAssignments")
	out := make([]course.Assignment, len(c.Assignments))
	for i, it := range c.Assignments {
		out[i] = it
	}
	return out, nil
}

// GetQuizzes returns the quizzes.
func (c *Course) GetQuizzes(_ context.Context, _ *course.RequestConfig) ([]course.ContentItem, error) {
	c.record("GetQuizzes")
	return asContent(c.Quizzes), nil
}

// GetDiscussions returns the discussion topics.
func (c *Course) GetDiscussions(_ context.Context, _ *course.RequestConfig) ([]course.ContentItem, error) {
	c.record("GetDiscussions")
	return asContent(c.Discussions), nil
}

// GetTabs returns a copy of the navigation tabs.
func (c *Course) GetTabs(_ context.Context, _ *course.RequestConfig) ([]course.Tab, error) {
	c.record("GetTabs")
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]course.Tab, len(c.Tabs))
	copy(out, c.Tabs)
	return out, nil
}

// UpdateTab sets the hidden flag of the tab with the given id.
func (c *Course) UpdateTab(_ context.Context, id string, hidden bool) (*course.Tab, error) {
	c.record("UpdateTab")
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.Tabs {
		if c.Tabs[i].ID == id {
			c.Tabs[i].Hidden = hidden
			t := c.Tabs[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tab %q not found", id)
}

// GetSettings returns a copy of the settings.
func (c *Course) GetSettings(_ context.Context, _ *course.RequestConfig) (course.Settings, error) {
	c.record("GetSettings")
	if c.GetSettingsErr != nil {
		return nil, c.GetSettingsErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(course.Settings, len(c.Settings))
	for k, v := range c.Settings {
		out[k] = v
	}
	return out, nil
}

// UpdateSettings merges s into the settings and returns the result.
func (c *Course) UpdateSettings(ctx context.Context, s course.Settings) (course.Settings, error) {
	c.record("UpdateSettings")
	if c.UpdateSettingsErr != nil {
		return nil, c.UpdateSettingsErr
	}
	c.mu.Lock()
	if c.Settings == nil {
		c.Settings = course.Settings{}
	}
	for k, v := range s {
		c.Settings[k] = v
	}
	c.mu.Unlock()
	return c.GetSettings(ctx, nil)
}

// GetRubrics returns a deep copy of the rubrics.
func (c *Course) GetRubrics(_ context.Context, _ *course.RequestConfig) ([]course.Rubric, error) {
	c.record("GetRubrics")
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]course.Rubric, len(c.Rubrics))
	for i, r := range c.Rubrics {
		r.Associations = append([]course.RubricAssociation(nil), r.Associations...)
		out[i] = r
	}
	return out, nil
}

// UpdateRubricAssociation replaces the association with the same id.
func (c *Course) UpdateRubricAssociation(_ context.Context, a course.RubricAssociation) error {
	c.record("UpdateRubricAssociation")
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.Rubrics {
		for j := range c.Rubrics[i].Associations {
			if c.Rubrics[i].Associations[j].ID == a.ID {
				c.Rubrics[i].Associations[j] = a
				return nil
			}
		}
	}
	return fmt.Errorf("rubric association %d not found", a.ID)
}
