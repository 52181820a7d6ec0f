package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/ratelimit"
)

// RegisterRoutes registers the full API surface with per-endpoint rate
// limit configuration.
func RegisterRoutes(
	api huma.API,
	links *LinkHandler,
	authH *AuthHandler,
	analyticsH *AnalyticsHandler,
	redirect *RedirectHandler,
) {
	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List links",
		Description: "Returns one page of short links, newest first.",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/links",
		Summary:     "Create link",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 30},
					{Window: time.Hour, Max: 300},
				},
			},
		},
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/links/{shortCode}",
		Summary:       "Delete link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "batch-create-links",
		Method:      http.MethodPost,
		Path:        "/links/batch",
		Summary:     "Batch create links",
		Description: "Creates up to 100 links; items succeed or fail independently, outcomes preserve input order.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
					{Window: time.Hour, Max: 50},
				},
			},
		},
	}, links.CreateBatch)

	huma.Register(api, huma.Operation{
		OperationID: "code-options",
		Method:      http.MethodGet,
		Path:        "/links/codes",
		Summary:     "Short code autocomplete",
		Tags:        []string{"Links"},
	}, links.CodeOptions)

	huma.Register(api, huma.Operation{
		OperationID: "get-analytics",
		Method:      http.MethodGet,
		Path:        "/analytics/{shortCode}",
		Summary:     "Link analytics",
		Tags:        []string{"Analytics"},
	}, analyticsH.GetAnalytics)

	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register account",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAuth},
		},
	}, authH.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAuth},
		},
	}, authH.Login)

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Logout",
		Tags:        []string{"Auth"},
	}, authH.Logout)

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current identity",
		Tags:        []string{"Auth"},
	}, authH.Me)

	huma.Register(api, huma.Operation{
		OperationID: "get-captcha",
		Method:      http.MethodGet,
		Path:        "/auth/captcha",
		Summary:     "Issue captcha",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 20},
				},
			},
		},
	}, authH.GetCaptcha)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{shortCode}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"Redirect"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, redirect.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "verify-password",
		Method:      http.MethodPost,
		Path:        "/{shortCode}",
		Summary:     "Verify redirect password",
		Tags:        []string{"Redirect"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAuth},
		},
	}, redirect.VerifyPassword)
}
