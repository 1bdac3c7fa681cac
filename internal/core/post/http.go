// Copyright (c) 2026 Inkpress. All rights reserved.

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress/inkpress/internal/platform/request"
	"github.com/inkpress/inkpress/internal/platform/respond"
	"github.com/inkpress/inkpress/internal/platform/validate"
	"github.com/inkpress/inkpress/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements article-related HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with article routes.
//
// Discovery endpoints are public; authoring endpoints require a valid
// access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public discovery
	router.Get("/", handler.list)
	router.Get("/featured", handler.featured)
	router.Get("/popular", handler.popular)
	router.Get("/{slug}", handler.getBySlug)
	router.Get("/{slug}/related", handler.related)

	// Authoring
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.toggleLike)
	})

	return router
}

// # Request Payloads

type createPostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverURL   string   `json:"cover_url"`
	CategoryID *string  `json:"category_id"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

type updatePostRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Excerpt    *string  `json:"excerpt"`
	CoverURL   *string  `json:"cover_url"`
	CategoryID *string  `json:"category_id"`
	Tags       []string `json:"tags"`
	Status     *string  `json:"status"`
	IsFeatured *bool    `json:"is_featured"`
}

type subscribeRequest struct {
	Email string `json:"email"`
}

/*
List returns a filtered, paginated page of published posts.

GET /api/v1/posts?page=&limit=&category=&tag=&author=&status=

Response:
  - 200: Paginated[]Post
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Status:       request.URL.Query().Get("status"),
		CategorySlug: request.URL.Query().Get("category"),
		Tag:          request.URL.Query().Get("tag"),
		AuthorID:     request.URL.Query().Get("author"),
	}

	// Drafts are only listable by their author.
	if filter.Status == StatusDraft {
		claims := requestutil.Claims(request)
		if claims == nil || claims.UserID != filter.AuthorID {
			filter.Status = StatusPublished
		}
	}

	posts, total, err := handler.postService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create authors a new post.

POST /api/v1/posts

Request:
  - Body: createPostRequest

Response:
  - 201: Post: Created entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: A post with this slug already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldContent, input.Content)
	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, StatusDraft, StatusPublished)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Create(request.Context(), userID, CreateInput{
		Title:      input.Title,
		Content:    input.Content,
		Excerpt:    input.Excerpt,
		CoverURL:   input.CoverURL,
		CategoryID: input.CategoryID,
		Tags:       input.Tags,
		Status:     input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

/*
GetBySlug returns a single post and counts the view.

GET /api/v1/posts/{slug}

Response:
  - 200: Post
  - 404: ErrNotFound
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.postService.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

/*
Update applies partial changes to a post's mutable fields.

PATCH /api/v1/posts/{id}

Response:
  - 200: Post: Updated entity
  - 403: ErrForbidden: Caller is neither author nor admin
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Status != nil {
		validator.OneOf(FieldStatus, *input.Status, StatusDraft, StatusPublished)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Update(
		request.Context(),
		claims.UserID,
		claims.UserRole(),
		requestutil.Param(request, "id"),
		UpdateInput{
			Title:      input.Title,
			Content:    input.Content,
			Excerpt:    input.Excerpt,
			CoverURL:   input.CoverURL,
			CategoryID: input.CategoryID,
			Tags:       input.Tags,
			Status:     input.Status,
			IsFeatured: input.IsFeatured,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
Delete removes a post and its dependent comments and likes.

DELETE /api/v1/posts/{id}

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

	err = handler.postService.Delete(request.Context(), claims.UserID, claims.UserRole(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ToggleLike flips the caller's like on a post.

POST /api/v1/posts/{id}/like

Response:
  - 200: {liked, like_count}
  - 404: ErrNotFound
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	liked, count, err := handler.postService.ToggleLike(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"liked":      liked,
		"like_count": count,
	})
}

func (handler *Handler) featured(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.postService.Featured(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

func (handler *Handler) popular(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.postService.Popular(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

func (handler *Handler) related(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.postService.Related(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, posts)
}

// # Top-Level Discovery Endpoints

/*
Search runs a full-text query over published posts. Mounted at /search by
the API server.

GET /api/v1/search?q=&page=&limit=

Response:
  - 200: Paginated[]Post
  - 400: ErrValidation: Missing query
*/
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get(FieldQuery)

	validator := &validate.Validator{}
	validator.Required(FieldQuery, query)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	posts, total, err := handler.postService.Search(request.Context(), query, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

// Tags returns the distinct tag vocabulary. Mounted at /tags by the API server.
func (handler *Handler) Tags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.postService.Tags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

/*
Subscribe records a newsletter subscription. Mounted at /newsletter by the
API server.

POST /api/v1/newsletter

Response:
  - 201: {message}
  - 409: ErrConflict: Email already subscribed
*/
func (handler *Handler) Subscribe(writer http.ResponseWriter, request *http.Request) {
	var input subscribeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Subscribe(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{
		"message": "Subscribed to the newsletter",
	})
}
