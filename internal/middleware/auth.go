package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/haikudo/backend/internal/auth"
	"github.com/haikudo/backend/internal/model"
	"github.com/haikudo/backend/internal/policy"
	"github.com/haikudo/backend/internal/repository"
)

// identityKey is the context key under which Authenticate stores the
// resolved user.
const identityKey = "identity"

// Authenticate resolves the request's bearer credential into an identity.
// Resolution is soft: a missing, malformed, expired or orphaned token
// leaves the request anonymous and lets it proceed, because many routes
// tolerate anonymous access. Only the Require* gates below turn a failed
// resolution into an error response.
//
// An inactive user still resolves to an identity here; RequireUser decides
// whether that is acceptable for the route.
func Authenticate(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c) // anonymous
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			uid, err := auth.VerifyAccessToken(secret, raw)
			if err != nil {
				return next(c) // invalid credential, anonymous
			}

			u, err := users.GetByID(c.Request().Context(), uid)
			if err != nil {
				return next(c) // subject no longer exists, anonymous
			}

			c.Set(identityKey, &u)
			return next(c)
		}
	}
}

// CurrentUser returns the identity resolved by Authenticate, or nil for an
// anonymous request.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(identityKey).(*model.User); ok {
		return u
	}
	return nil
}

// RequireUser aborts requests that did not resolve to an active user.
// Anonymous requests get 401; a resolved but deactivated account gets 400,
// mirroring the distinction between "who are you" and "you may not".
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				c.Response().Header().Set("WWW-Authenticate", "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":  "invalid_token",
					"detail": "Could not validate credentials",
				})
			}
			if !u.IsActive {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error":  "inactive_account",
					"detail": "Account is inactive",
				})
			}
			return next(c)
		}
	}
}

// RequireSuperuser layers the superuser gate on top of RequireUser; it
// assumes RequireUser already ran.
func RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !policy.IsAdmin(CurrentUser(c)) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":  "forbidden",
					"detail": "Not enough permissions",
				})
			}
			return next(c)
		}
	}
}
