package middleware

// identity.go holds the identity helper shared by the cache and rate
// limit middlewares. The JWT middleware stores the authenticated email
// under "user_email"; unauthenticated requests resolve to "anon" so
// anonymous traffic shares one bucket per IP.

import "github.com/labstack/echo/v4"

// currentUserID extracts the authenticated user's email from context,
// or "anon" when the request carries no identity.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_email"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
