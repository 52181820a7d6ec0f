package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/auth"
)

// APITokenIdentity is the identity assumed by requests authenticated
// with the static API token.
const APITokenIdentity = "api"

// APIToken authenticates service-to-service callers via a static
// Authorization header. Inactive when no token is configured; a wrong
// token is rejected rather than downgraded to anonymous.
func APIToken(api huma.API, token string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")

		if token == "" || header == "" {
			next(ctx)

			return
		}

		if header != token {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid api token")

			return
		}

		reqCtx := auth.ContextWithIdentity(ctx.Context(), auth.Identity{
			Authenticated: true,
			Username:      APITokenIdentity,
		})
		ctx = huma.WithContext(ctx, reqCtx)

		next(ctx)
	}
}
