package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/middleware/visit"
	"github.com/cbdpascher/storefront/internal/session"
)

type ValidatorFunc func(s *session.Session) error

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return requireWithValidator(next, nil)
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return requireWithValidator(next, func(s *session.Session) error {
		if !s.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func requireWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, ok := visit.FromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing visit")
		}
		s := v.State.Snapshot().Session
		if !s.Authenticated() {
			return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
		}
		if validator != nil {
			if err := validator(s); err != nil {
				return err
			}
		}
		c.Set("role", string(s.Role))
		return next(c)
	}
}
