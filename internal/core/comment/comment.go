// Copyright (c) 2026 Inkpress. All rights reserved.

// Package comment implements flat post comments.
//
// Replies carry a parent ID but the API never assembles a tree; clients
// receive the flat, chronologically ordered list and nest it themselves.
package comment

import "time"

// Comment represents a single reader comment on a post.
type Comment struct {
	ID         string  `json:"id"`
	PostID     string  `json:"post_id"`
	AuthorID   string  `json:"author_id"`
	AuthorName string  `json:"author_name,omitempty"` // Joined from users.account.
	ParentID   *string `json:"parent_id,omitempty"`   // Stored, never resolved server-side.
	Content    string  `json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const FieldContent = "content"
