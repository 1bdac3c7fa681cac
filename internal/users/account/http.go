// Copyright (c) 2026 Inkpress. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress/inkpress/internal/platform/request"
	"github.com/inkpress/inkpress/internal/platform/respond"
	"github.com/inkpress/inkpress/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements profile-related HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with profile routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public author profile
	router.Get("/{id}", handler.authorProfile)

	// Private profile endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Patch("/me", handler.updateMe)
	})

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Website   *string `json:"website"`
}

/*
Me returns the authenticated user's private profile.

GET /api/v1/users/me

Response:
  - 200: auth.User: Full private profile
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe applies partial changes to the authenticated user's profile.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (Bio, AvatarURL, Website; all optional)

Response:
  - 200: auth.User: Updated private profile
  - 400: ErrInvalidJSON: Malformed payload or oversized fields
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Bio != nil {
		validator.MaxLen(FieldBio, *input.Bio, 500)
	}
	if input.AvatarURL != nil {
		validator.MaxLen(FieldAvatarURL, *input.AvatarURL, 2048)
	}
	if input.Website != nil {
		validator.MaxLen(FieldWebsite, *input.Website, 2048)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
		Website:   input.Website,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
AuthorProfile returns the public view of a user.

GET /api/v1/users/{id}

Response:
  - 200: AuthorProfile: Public profile
  - 404: ErrNotFound: No user with this ID
*/
func (handler *Handler) authorProfile(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetAuthorProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
