package api

import (
	"strings"

	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/service/auth"
	"github.com/labstack/echo/v4"
)

// IdentityMiddleware resolves the caller's identity when a token is present
// and attaches it to the request context. Read routes work signed out;
// report mutations check for the user themselves.
func (svc *APIService) IdentityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token := bearerToken(ctx)
		if token == "" {
			if cookie, err := ctx.Cookie(constants.CookieKeyAuthToken); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			return next(ctx)
		}

		user, err := svc.authService.Authenticate(token)
		if err != nil {
			// An invalid token is treated as signed out, not as a hard error.
			return next(ctx)
		}

		ctx.Set(constants.CtxKeyUserID, user.ID)
		ctx.Set(constants.CtxKeyUserEmail, user.Email)
		ctx.SetRequest(ctx.Request().WithContext(auth.WithUser(ctx.Request().Context(), user)))

		return next(ctx)
	}
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
