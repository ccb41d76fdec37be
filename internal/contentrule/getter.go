// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package contentrule

import (
	"context"
	"fmt"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/rule"
)

// ContentGetter fetches the content items a text rule scans. A nil getter
// means every content item the course exposes through course.ContentHaver.
type ContentGetter func(ctx context.Context, c any, cfg *course.RequestConfig) ([]course.ContentItem, error)

// Typed getters for the individual content kinds.
var (
	Pages = getterFor(func(ctx context.Context, h course.PagesHaver, cfg *course.RequestConfig) ([]course.ContentItem, error) {
		return h.GetPages(ctx, cfg)
	})
	Assignments = getterFor(func(ctx context.Context, h course.AssignmentsHaver, cfg *course.RequestConfig) ([]course.ContentItem, error) {
		as, err := h.GetAssignments(ctx, cfg)
		if err != nil {
			return nil, err
		}
		items := make([]course.ContentItem, len(as))
		for i, a := range as {
			items[i] = a
		}
		return items, nil
	})
	Quizzes = getterFor(func(ctx context.Context, h course.QuizzesHaver, cfg *course.RequestConfig) ([]course.ContentItem, error) {
		return h.GetQuizzes(ctx, cfg)
	})
	Discussions = getterFor(func(ctx context.Context, h course.DiscussionsHaver, cfg *course.RequestConfig) ([]course.ContentItem, error) {
		return h.GetDiscussions(ctx, cfg)
	})
)

func getterFor[H any](fetch func(ctx context.Context, h H, cfg *course.RequestConfig) ([]course.ContentItem, error)) ContentGetter {
	return func(ctx context.Context, c any, cfg *course.RequestConfig) ([]course.ContentItem, error) {
		h, ok := c.(H)
		if !ok {
			return nil, fmt.Errorf("%w: %T does not implement %T", rule.ErrMissingCapability, c, (*H)(nil))
		}
		return fetch(ctx, h, cfg)
	}
}

// fetchItems resolves getter, falling back to the course's full content list.
func fetchItems(ctx context.Context, c any, getter ContentGetter, cfg *course.RequestConfig) ([]course.ContentItem, error) {
	cfg = withBody(cfg)
	if getter != nil {
		return getter(ctx, c, cfg)
	}
	h, ok := c.(course.ContentHaver)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not implement course.ContentHaver", rule.ErrMissingCapability, c)
	}
	return h.GetContent(ctx, cfg)
}

// withBody makes sure bodies are requested. A caller-supplied config that
// already asks for them is kept as is.
func withBody(cfg *course.RequestConfig) *course.RequestConfig {
	if cfg.Includes("body") {
		return cfg
	}
	wb := course.WithBody()
	if cfg != nil {
		wb.Include = append(wb.Include, cfg.Include...)
		wb.Params = cfg.Params
		if cfg.PerPage > 0 {
			wb.PerPage = cfg.PerPage
		}
	}
	return wb
}
