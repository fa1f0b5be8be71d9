package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/taskhive/pkg/auth"
)

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. Requests without a valid access token get 401.
func RequireAuth(tokenManager *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token, err := auth.ExtractTokenFromHeader(header)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := tokenManager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := WithIdentity(c.Request().Context(), claims.UserID, claims.Email, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ExtractClientInfo records the client IP and user agent in the request
// context for audit logging.
func ExtractClientInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			info := ClientInfo{
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			ctx := WithClientInfo(c.Request().Context(), info)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
