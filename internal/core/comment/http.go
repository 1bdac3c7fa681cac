// Copyright (c) 2026 Inkpress. All rights reserved.

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress/inkpress/internal/platform/request"
	"github.com/inkpress/inkpress/internal/platform/respond"
	"github.com/inkpress/inkpress/internal/platform/validate"
)

// Handler implements comment-related HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with comment routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/post/{postID}", handler.listByPost)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type createCommentRequest struct {
	PostID   string  `json:"post_id"`
	ParentID *string `json:"parent_id"`
	Content  string  `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

/*
ListByPost returns all comments on a post, oldest first.

GET /api/v1/comments/post/{postID}

Response:
  - 200: []Comment
*/
func (handler *Handler) listByPost(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.commentService.ListByPost(request.Context(), requestutil.Param(request, "postID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

/*
Create posts a comment or a reply.

POST /api/v1/comments

Request:
  - Body: createCommentRequest

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: Post does not exist
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("post_id", input.PostID).
		UUID("post_id", input.PostID).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, 2000)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), userID, CreateInput{
		PostID:   input.PostID,
		ParentID: input.ParentID,
		Content:  input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
Update replaces a comment's content.

PATCH /api/v1/comments/{id}

Response:
  - 200: Comment: Updated entity
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, input.Content).MaxLen(FieldContent, input.Content, 2000)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), userID, requestutil.Param(request, "id"), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
Delete removes a comment and its replies.

DELETE /api/v1/comments/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is neither author nor admin
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.commentService.Delete(request.Context(), claims.UserID, claims.UserRole(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
