package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/handlers"
	"go.uber.org/zap"
)

// Session resolves the session cookie into a caller identity on the
// request context. Invalid or expired sessions degrade to anonymous;
// endpoints that require identity reject on their own.
func Session(svc *auth.Service, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqCtx := ctx.Context()

		// A previous middleware (API token) may have authenticated already.
		if auth.IdentityFromContext(reqCtx).Authenticated {
			next(ctx)

			return
		}

		token := sessionToken(ctx)
		if token == "" {
			next(ctx)

			return
		}

		reqCtx = auth.ContextWithSessionToken(reqCtx, token)

		id, err := svc.Me(reqCtx, token)
		if err != nil {
			// Session store trouble must not take reads down; log and
			// continue anonymous.
			logger.Error("failed to resolve session", zap.Error(err))
		}

		reqCtx = auth.ContextWithIdentity(reqCtx, id)
		ctx = huma.WithContext(ctx, reqCtx)

		next(ctx)
	}
}

func sessionToken(ctx huma.Context) string {
	for _, cookie := range huma.ReadCookies(ctx) {
		if cookie.Name == handlers.SessionCookie {
			return cookie.Value
		}
	}

	return ""
}
