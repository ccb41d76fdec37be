// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package course defines the capability surface rules consume from a course.
// Each rule is typed against the smallest subset it needs, so tests can pass
// minimal fakes and the LMS client can implement everything.
package course

import (
	"context"
	"regexp"
	"strings"
)

// DefaultPerPage is the page size used when rules fetch content lists.
const DefaultPerPage = 50

// RequestConfig tunes a single LMS request. A nil *RequestConfig means
// server defaults.
type RequestConfig struct {
	// Include lists optional fields to request (e.g. "body", "syllabus_body").
	Include []string

	// PerPage is the page size for list endpoints; zero means server default.
	PerPage int

	// Params carries any extra query parameters.
	Params map[string]string
}

// Includes reports whether field was requested. It is safe on a nil config.
func (c *RequestConfig) Includes(field string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.Include {
		if f == field {
			return true
		}
	}
	return false
}

// WithBody returns the configuration rules use to scan content bodies.
func WithBody() *RequestConfig {
	return &RequestConfig{Include: []string{"body", "description"}, PerPage: DefaultPerPage}
}

// Kind identifies the type of a content item.
type Kind string

// Content item kinds.
const (
	KindPage       Kind = "page"
	KindAssignment Kind = "assignment"
	KindQuiz       Kind = "quiz"
	KindDiscussion Kind = "discussion"
)

// ContentItem is any course object with an HTML body.
type ContentItem interface {
	Kind() Kind
	ID() int
	Name() string

	// Body returns the HTML body; ok is false when the item carries none
	// (for example when it was listed without requesting bodies).
	Body() (body string, ok bool)

	// HTMLURL is the item's page in the LMS.
	HTMLURL() string

	// UpdateContent persists a new body.
	UpdateContent(ctx context.Context, body string) error
}

// Assignment is a ContentItem with grading details.
type Assignment interface {
	ContentItem
	PointsPossible() float64
}

// Identity exposes the fields every course carries.
type Identity interface {
	ID() int
	CourseCode() string
	HTMLURL() string
}

// SyllabusUpdate is what the LMS echoes after a syllabus change.
type SyllabusUpdate struct {
	CourseID     int
	SyllabusBody string
}

// SyllabusHaver reads and writes the syllabus HTML.
type SyllabusHaver interface {
	Identity
	GetSyllabus(ctx context.Context, cfg *RequestConfig) (string, error)
	ChangeSyllabus(ctx context.Context, html string, cfg *RequestConfig) (*SyllabusUpdate, error)
}

// ContentHaver is the union convenience used by the text rules: every content
// item plus the syllabus.
type ContentHaver interface {
	SyllabusHaver
	GetContent(ctx context.Context, cfg *RequestConfig) ([]ContentItem, error)
}

// PagesHaver lists wiki pages.
type PagesHaver interface {
	GetPages(ctx context.Context, cfg *RequestConfig) ([]ContentItem, error)
}

// AssignmentsHaver lists assignments.
type AssignmentsHaver interface {
	GetAssignments(ctx context.Context, cfg *RequestConfig) ([]Assignment, error)
}

// QuizzesHaver lists quizzes.
type QuizzesHaver interface {
	GetQuizzes(ctx context.Context, cfg *RequestConfig) ([]ContentItem, error)
}

// DiscussionsHaver lists discussion topics.
type DiscussionsHaver interface {
	GetDiscussions(ctx context.Context, cfg *RequestConfig) ([]ContentItem, error)
}

// Tab is one entry of the course navigation.
type Tab struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Hidden   bool   `json:"hidden,omitempty"`
	Position int    `json:"position"`
	HTMLURL  string `json:"html_url,omitempty"`
}

// TabsHaver reads and updates navigation tabs.
type TabsHaver interface {
	Identity
	GetTabs(ctx context.Context, cfg *RequestConfig) ([]Tab, error)
	UpdateTab(ctx context.Context, id string, hidden bool) (*Tab, error)
}

// Settings is the course settings object, keyed by setting name.
type Settings map[string]any

// SettingsHaver reads and writes course settings.
type SettingsHaver interface {
	Identity
	GetSettings(ctx context.Context, cfg *RequestConfig) (Settings, error)
	UpdateSettings(ctx context.Context, s Settings) (Settings, error)
}

// RubricAssociation links a rubric to the object it grades.
type RubricAssociation struct {
	ID              int    `json:"id"`
	RubricID        int    `json:"rubric_id"`
	AssociationID   int    `json:"association_id"`
	AssociationType string `json:"association_type"`
	UseForGrading   bool   `json:"use_for_grading"`
}

// Rubric is a grading rubric with its associations.
type Rubric struct {
	ID             int                 `json:"id"`
	Title          string              `json:"title"`
	PointsPossible float64             `json:"points_possible"`
	Associations   []RubricAssociation `json:"associations,omitempty"`
}

// RubricsHaver lists rubrics and updates how they are associated.
type RubricsHaver interface {
	Identity
	GetRubrics(ctx context.Context, cfg *RequestConfig) ([]Rubric, error)
	UpdateRubricAssociation(ctx context.Context, a RubricAssociation) error
}

// SyllabusURL is the syllabus page of a course.
func SyllabusURL(c Identity) string {
	return strings.TrimSuffix(c.HTMLURL(), "/") + "/assignments/syllabus"
}

var courseCodePattern = regexp.MustCompile(`(?:^|[^A-Za-z])([A-Za-z]{2,5}\s*-?\s*\d{3}[A-Za-z]?)`)

// ParseCourseCode extracts the canonical course code, such as "ANIM301",
// from a full LMS course code like "BP_anim 301 (Fall)". A candidate followed
// by another digit is part of a longer number, such as the year in
// "FALL2024", and is skipped. Codes without a recognizable subject and number
// are upper-cased unchanged.
func ParseCourseCode(code string) string {
	for _, loc := range courseCodePattern.FindAllStringSubmatchIndex(code, -1) {
		start, end := loc[2], loc[3]
		if end < len(code) && isDigit(code[end]) {
			continue
		}
		m := strings.NewReplacer(" ", "", "\t", "", "-", "").Replace(code[start:end])
		return strings.ToUpper(m)
	}
	return strings.ToUpper(code)
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
