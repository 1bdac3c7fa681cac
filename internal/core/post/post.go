// Copyright (c) 2026 Inkpress. All rights reserved.

/*
Package post implements the article publishing domain.

It covers the full article lifecycle (draft, publish, update, delete) plus
the discovery surface: filtered listings, full-text search, featured and
popular selections, related-by-tags lookups, and like/view counters.

# Architecture

  - Service: Orchestrates business rules (slugging, authorship checks).
  - Repository: PostgreSQL for durable article state.
  - ViewStore: Redis for volatile view counters and the popular-posts cache.
*/
package post

import (
	"time"
)

// Publication states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// # Domain Entities

// Post represents a single article on the Inkpress platform.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`

	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"` // Joined from users.account.

	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"` // Joined from core.category.

	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	IsFeatured bool     `json:"is_featured"`

	ViewCount int64 `json:"view_count"`
	LikeCount int   `json:"like_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows a post listing. Zero values mean "no constraint".
type Filter struct {
	Status       string
	CategorySlug string
	Tag          string
	AuthorID     string
	Search       string // websearch_to_tsquery input
}

// Discovery sizes.
const (
	FeaturedCount = 5
	PopularCount  = 5
	RelatedCount  = 3
)

// # Field Identifiers

const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldExcerpt    = "excerpt"
	FieldCoverURL   = "cover_url"
	FieldCategoryID = "category_id"
	FieldTags       = "tags"
	FieldStatus     = "status"
	FieldEmail      = "email"
	FieldQuery      = "q"
)
