// Package visit attaches the caller's visit state to every request. A visit
// is identified by a signed cookie; unknown, expired or tampered cookies
// start a fresh visit.
package visit

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/state"
	"github.com/cbdpascher/storefront/internal/tokens"
)

const contextKey = "visit"

type Middleware struct {
	Store  *state.Store
	Secret []byte
	TTL    time.Duration
}

func (m *Middleware) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		v, exp, ok := m.resume(c)
		if !ok {
			id, st := m.Store.Create()
			v = state.Visit{ID: id, State: st}
			l.Debug("visit_started", "visit_id", id.String())
		}

		// sliding expiry: reissue once half the lifetime is used
		if !ok || time.Until(exp) < m.TTL/2 {
			tok, newExp, err := tokens.SignVisit(v.ID, m.Secret, m.TTL)
			if err != nil {
				l.Error("visit_cookie_failed", "status", 500, "reason", "cannot sign visit token", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot start visit")
			}
			c.SetCookie(tokens.CreateCookie(tokens.VisitCookie, tok, "/", newExp))
		}

		l = l.With("visit_id", v.ID.String())
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		c.Set(contextKey, v)
		return next(c)
	}
}

func (m *Middleware) resume(c echo.Context) (state.Visit, time.Time, bool) {
	ck, err := c.Cookie(tokens.VisitCookie)
	if err != nil || ck.Value == "" {
		return state.Visit{}, time.Time{}, false
	}
	claims, err := tokens.VisitClaimsFromToken(ck.Value, m.Secret)
	if err != nil {
		logging.FromContext(c.Request().Context()).Debug("visit_cookie_rejected", "reason", "invalid visit token", "error", err)
		return state.Visit{}, time.Time{}, false
	}
	id, err := claims.VisitID()
	if err != nil {
		return state.Visit{}, time.Time{}, false
	}
	st, ok := m.Store.Get(id)
	if !ok {
		return state.Visit{}, time.Time{}, false
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return state.Visit{ID: id, State: st}, exp, true
}

// FromContext returns the visit loaded by Load.
func FromContext(c echo.Context) (state.Visit, bool) {
	v, ok := c.Get(contextKey).(state.Visit)
	return v, ok
}

// Set attaches v to c. Handlers tested without the middleware use it.
func Set(c echo.Context, v state.Visit) {
	c.Set(contextKey, v)
}
