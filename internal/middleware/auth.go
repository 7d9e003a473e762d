package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/Kevinzain29/movie-catalog-api/internal/utils"
)

// Authenticate returns an Echo middleware that validates the session
// cookie and injects the caller's identity into the request context.
// The provided secret must match the one used when issuing tokens.
// Handlers behind this middleware can read the identity via
// c.Get("user_id") (uint64) and c.Get("is_admin") (bool).
//
// Error wording matches the contract the frontend was built against:
// a missing cookie yields "Not authorized, no token" and a bad or
// expired token yields "Not authorized, token failed", both 401.
func Authenticate(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(utils.TokenCookieName)
            if err != nil || cookie.Value == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
            }
            claims, err := utils.ParseSessionToken(secret, cookie.Value)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
            }
            c.Set("user_id", claims.UserID)
            c.Set("is_admin", claims.IsAdmin)
            return next(c)
        }
    }
}

// RequireAdmin enforces the admin flag on routes that mutate the catalog
// or manage users.  It assumes Authenticate ran earlier in the chain and
// stored "is_admin" in the context; anything else is treated as not
// authorized.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            admin, ok := c.Get("is_admin").(bool)
            if !ok || !admin {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized as an admin"})
            }
            return next(c)
        }
    }
}
