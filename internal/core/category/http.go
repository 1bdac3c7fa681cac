package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/core/post"
	"github.com/inkpress/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress/inkpress/internal/platform/request"
	"github.com/inkpress/inkpress/internal/platform/respond"
	"github.com/inkpress/inkpress/internal/platform/sec"
	"github.com/inkpress/inkpress/internal/platform/validate"
	"github.com/inkpress/inkpress/pkg/pagination"
)

type Handler struct {
	categoryService *Service
	postService     *post.Service
}

func NewHandler(service *Service, postService *post.Service) *Handler {
	return &Handler{categoryService: service, postService: postService}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{slug}", handler.getBySlug)
	router.Get("/{slug}/posts", handler.postsByCategory)

	// Category curation is an admin concern.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
	})

	return router
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.categoryService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.categoryService.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) postsByCategory(writer http.ResponseWriter, request *http.Request) {
	categorySlug := requestutil.Param(request, "slug")

	// 404 for unknown categories instead of an empty page.
	if _, err := handler.categoryService.GetBySlug(request.Context(), categorySlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	posts, total, err := handler.postService.List(request.Context(),
		post.Filter{CategorySlug: categorySlug}, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createCategoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		MaxLen("description", input.Description, 500)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.categoryService.Create(request.Context(), input.Name, input.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}
