// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package syllabus checks and edits named sections of a course syllabus.
//
// A section is located by its heading: the first h2, h3 or h4 in document
// order whose text matches a search. The heading's parent element is the
// section.
package syllabus

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

// SectionData is the UserData of a section check. Syllabus is a synthetic
// <div> whose children are the parsed syllabus. Section and Header are nil
// when no matching heading was found.
type SectionData struct {
	Syllabus *html.Node
	Section  *html.Node
	Header   *html.Node
}

// SearchError is the UserData of a section check that could not be evaluated.
type SearchError struct {
	HeaderSearch textmatch.Matcher
	BodySearch   textmatch.Matcher
	Err          error
}

var sectionHeadings = []atom.Atom{atom.H2, atom.H3, atom.H4}

// InSection returns a run function that passes when the syllabus section
// headed by a heading matching headerSearch contains bodySearch anywhere in
// its inner HTML.
//
// Failures never surface as errors: a missing heading or a fetch or parse
// error becomes a failed result.
func InSection(headerSearch, bodySearch textmatch.Matcher) rule.RunFunc {
	return rule.Capable(func(ctx context.Context, c course.SyllabusHaver, cfg *course.RequestConfig) (result.ValidationResult, error) {
		fail := func(err error) (result.ValidationResult, error) {
			r := result.ErrorResult(err, course.SyllabusURL(c))
			r.UserData = &SearchError{HeaderSearch: headerSearch, BodySearch: bodySearch, Err: err}
			return r, nil
		}

		body, err := c.GetSyllabus(ctx, cfg)
		if err != nil {
			return fail(fmt.Errorf("fetch syllabus: %w", err))
		}
		root, err := ParseFragment(body)
		if err != nil {
			return fail(err)
		}

		header := FindHeader(root, headerSearch, sectionHeadings...)
		if header == nil {
			return result.New(result.StatusFailed, result.Options{
				FailureMessage: fmt.Sprintf("could not find a %q heading in the syllabus", describe(headerSearch)),
				Links:          []string{course.SyllabusURL(c)},
				UserData:       &SectionData{Syllabus: root},
			}), nil
		}
		section := header.Parent
		inner, err := InnerHTML(section)
		if err != nil {
			return fail(err)
		}

		data := &SectionData{Syllabus: root, Section: section, Header: header}
		heading := strings.TrimSpace(TextContent(header))
		return result.New(result.Bool(bodySearch.MatchString(inner)), result.Options{
			FailureMessage:    fmt.Sprintf("syllabus section %q does not contain %q", heading, describe(bodySearch)),
			NotFailureMessage: fmt.Sprintf("syllabus section %q contains %q", heading, describe(bodySearch)),
			Links:             []string{course.SyllabusURL(c)},
			UserData:          data,
		}), nil
	})
}

// ParseFragment parses syllabus HTML into the children of a synthetic <div>.
func ParseFragment(s string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), root)
	if err != nil {
		return nil, fmt.Errorf("parse syllabus: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// FindHeader returns the first element under root, in document order, whose
// tag is one of tags and whose text matches search.
func FindHeader(root *html.Node, search textmatch.Matcher, tags ...atom.Atom) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil && found == nil; child = child.NextSibling {
			if child.Type == html.ElementNode && isOneOf(child.DataAtom, tags) && search.MatchString(TextContent(child)) {
				found = child
				return
			}
			walk(child)
		}
	}
	walk(root)
	return found
}

func isOneOf(a atom.Atom, set []atom.Atom) bool {
	for _, s := range set {
		if a == s {
			return true
		}
	}
	return false
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

func describe(m textmatch.Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(m)
}
