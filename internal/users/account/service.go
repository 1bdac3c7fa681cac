// Copyright (c) 2026 Inkpress. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkpress/inkpress/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user profiles.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
GetAuthorProfile retrieves the public view of a user for reader-facing pages.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *AuthorProfile: Public profile with credentials and email stripped
  - error: Not found or execution failures
*/
func (service *Service) GetAuthorProfile(context context.Context, userID string) (*AuthorProfile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return PublicProfile(user), nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil pointers leave the corresponding field untouched.
type UpdateProfileInput struct {
	Bio       *string
	AvatarURL *string
	Website   *string
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Website != nil {
		user.Website = *input.Website
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}
