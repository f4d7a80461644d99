// Package handler contains the HTTP endpoints: auth, catalog browsing,
// slot listings, bookings and the resident profile.
package handler

import "github.com/labstack/echo/v4"

// getUserID reads the authenticated user id stored in the context by the
// JWT middleware.  The type switch tolerates both the uint64 set by the
// middleware and a raw float64 from tests that seed the context manually.
func getUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v, true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
