// Copyright (c) 2026 Inkpress. All rights reserved.

package comment

import (
	"context"
	"log/slog"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/sec"
	"github.com/inkpress/inkpress/pkg/uuidv7"
)

// Service orchestrates business logic for post comments.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repository: repo, logger: logger}
}

// CreateInput holds the data required to post a comment.
type CreateInput struct {
	PostID   string
	ParentID *string
	Content  string
}

// Create posts a comment, optionally as a reply. The parent ID is stored
// verbatim; no tree is assembled.
func (service *Service) Create(context context.Context, authorID string, input CreateInput) (*Comment, error) {
	comment := &Comment{
		ID:       uuidv7.Must(),
		PostID:   input.PostID,
		AuthorID: authorID,
		ParentID: input.ParentID,
		Content:  input.Content,
	}

	if err := service.repository.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByPost returns the flat comment list for a post, oldest first.
func (service *Service) ListByPost(context context.Context, postID string) ([]*Comment, error) {
	return service.repository.ListByPost(context, postID)
}

// Update replaces a comment's content. Only the author may edit.
func (service *Service) Update(context context.Context, actorID, commentID, content string) (*Comment, error) {
	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != actorID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	comment.Content = content
	if err := service.repository.Update(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment and its direct replies. The author or an admin
// may delete.
func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, commentID string) error {
	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You do not have permission to delete this comment")
	}

	if err := service.repository.Delete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))
	return nil
}
