package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/analytics"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/linkdeck/linkdeck/internal/link"
)

// mapDomainError converts domain errors into huma status errors.
// Anything unrecognized becomes a 500 so store failures never leak
// internals to the client.
func mapDomainError(err error) error {
	var linkValidation *link.ValidationError
	if errors.As(err, &linkValidation) {
		return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Location: "body." + linkValidation.Field,
			Message:  linkValidation.Message,
		})
	}

	var authValidation *auth.ValidationError
	if errors.As(err, &authValidation) {
		return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Location: "body." + authValidation.Field,
			Message:  authValidation.Message,
		})
	}

	switch {
	case errors.Is(err, link.ErrNotFound):
		return huma.Error404NotFound("short link not found")
	case errors.Is(err, link.ErrCodeTaken):
		return huma.Error409Conflict("short code already taken")
	case errors.Is(err, link.ErrExpired):
		return huma.Error410Gone("this short link has expired")
	case errors.Is(err, link.ErrPasswordRequired):
		return huma.Error401Unauthorized("password required")
	case errors.Is(err, link.ErrWrongPassword):
		return huma.Error401Unauthorized("invalid password")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return huma.Error401Unauthorized("invalid credentials")
	case errors.Is(err, auth.ErrUsernameTaken):
		return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Location: "body.username",
			Message:  "already taken",
		})
	case errors.Is(err, auth.ErrEmailTaken):
		return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Location: "body.email",
			Message:  "already taken",
		})
	case errors.Is(err, captcha.ErrChallengeFailed):
		return huma.Error400BadRequest("invalid or expired captcha")
	case errors.Is(err, analytics.ErrBadRange):
		return huma.Error422UnprocessableEntity("invalid analytics range")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
