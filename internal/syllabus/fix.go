// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package syllabus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/result"
	"github.com/davetashner/coursefix/internal/rule"
	"github.com/davetashner/coursefix/internal/textmatch"
)

type positionKind int

const (
	atEnd positionKind = iota
	atBeginning
	directlyAfterHeader
	beforeHeader
)

// Position says where AddSectionFix inserts new content.
type Position struct {
	kind   positionKind
	header textmatch.Matcher
}

// Insertion positions relative to the located section.
var (
	// AtEnd appends inside the section.
	AtEnd = Position{kind: atEnd}
	// AtBeginning inserts right after the section's first heading.
	AtBeginning = Position{kind: atBeginning}
	// DirectlyAfterHeader inserts right after the matched heading.
	DirectlyAfterHeader = Position{kind: directlyAfterHeader}
)

// BeforeHeader inserts before a different heading, anywhere in the syllabus,
// whose text matches search.
func BeforeHeader(search textmatch.Matcher) Position {
	return Position{kind: beforeHeader, header: search}
}

func (p Position) String() string {
	switch p.kind {
	case atBeginning:
		return "at beginning"
	case directlyAfterHeader:
		return "directly after header"
	case beforeHeader:
		return fmt.Sprintf("before header %q", describe(p.header))
	default:
		return "at end"
	}
}

var anyHeading = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// AddSectionFix returns a fix that inserts newHTML into the section located by
// run, which must be built by InSection.
//
// Success is judged from the LMS echo. For BeforeHeader the echoed syllabus
// must contain the new fragment's text. For the other positions only the
// echoed course id is compared, which does not prove the content was saved.
func AddSectionFix(run rule.RunFunc, newHTML string, pos Position) rule.FixFunc {
	return rule.CapableFix(func(ctx context.Context, c course.SyllabusHaver, prev *result.ValidationResult) (result.ValidationResult, error) {
		if prev == nil {
			r, err := run(ctx, c, nil)
			if err != nil {
				return result.ValidationResult{}, err
			}
			prev = &r
		}
		if prev.Success.Truthy() {
			return result.NotRun("syllabus section already has the content; nothing to fix"), nil
		}
		data, ok := prev.UserData.(*SectionData)
		if !ok || data.Section == nil {
			return *prev, nil
		}

		nodes, err := html.ParseFragment(strings.NewReader(newHTML), contextNode(data.Section))
		if err != nil {
			return result.ErrorResult(fmt.Errorf("parse new content: %w", err)), nil
		}
		newText := strings.TrimSpace(fragmentText(nodes))

		if err := insert(data, nodes, pos); err != nil {
			return result.New(result.StatusFailed, result.Options{
				FailureMessage: err.Error(),
				Links:          []string{course.SyllabusURL(c)},
			}), nil
		}

		body, err := InnerHTML(data.Syllabus)
		if err != nil {
			return result.ErrorResult(err), nil
		}
		echo, err := c.ChangeSyllabus(ctx, body, nil)
		if err != nil {
			return result.ErrorResult(fmt.Errorf("save syllabus: %w", err), course.SyllabusURL(c)), nil
		}
		slog.Debug("syllabus section updated", "course", c.ID(), "position", pos.String())

		var saved bool
		if pos.kind == beforeHeader {
			saved = echo != nil && echoContains(echo.SyllabusBody, newText)
		} else {
			saved = echo != nil && echo.CourseID == c.ID()
		}
		return result.New(result.Bool(saved), result.Options{
			FailureMessage:    "syllabus update was not confirmed by the LMS",
			NotFailureMessage: fmt.Sprintf("added content %s", pos),
			Links:             []string{course.SyllabusURL(c)},
		}), nil
	})
}

// contextNode is the element new content is parsed against. It is a detached
// copy so parsing cannot touch the live tree.
func contextNode(n *html.Node) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
}

func insert(data *SectionData, nodes []*html.Node, pos Position) error {
	switch pos.kind {
	case atEnd:
		for _, n := range nodes {
			data.Section.AppendChild(n)
		}
	case atBeginning:
		var first *html.Node
		for c := data.Section.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && isOneOf(c.DataAtom, anyHeading) {
				first = c
				break
			}
		}
		if first == nil {
			insertBefore(data.Section, data.Section.FirstChild, nodes)
			return nil
		}
		insertBefore(data.Section, first.NextSibling, nodes)
	case directlyAfterHeader:
		insertBefore(data.Header.Parent, data.Header.NextSibling, nodes)
	case beforeHeader:
		target := FindHeader(data.Syllabus, pos.header, anyHeading...)
		if target == nil {
			return fmt.Errorf("could not find a %q heading to insert before", describe(pos.header))
		}
		insertBefore(target.Parent, target, nodes)
	default:
		return fmt.Errorf("unknown position %d", pos.kind)
	}
	return nil
}

// insertBefore inserts nodes in order before ref; a nil ref appends.
func insertBefore(parent, ref *html.Node, nodes []*html.Node) {
	for _, n := range nodes {
		if ref == nil {
			parent.AppendChild(n)
		} else {
			parent.InsertBefore(n, ref)
		}
	}
}

func fragmentText(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(TextContent(n))
	}
	return b.String()
}

func echoContains(body, text string) bool {
	root, err := ParseFragment(body)
	if err != nil {
		return false
	}
	return strings.Contains(TextContent(root), text)
}
