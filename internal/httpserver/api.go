package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/service"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
	"github.com/cbdpascher/storefront/internal/util"
	"github.com/cbdpascher/storefront/internal/validation"
)

// API serves the JSON endpoints under /api/v1.
type API struct {
	Svc *service.StorefrontService
}

type Response struct {
	Status string            `json:"status"`
	Errors validation.Errors `json:"errors,omitempty"`
}

type sessionResponse struct {
	Session *session.Session `json:"session"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// fail maps service errors to HTTP responses and logs them under event.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	if fe, ok := validation.AsErrors(err); ok && !errors.Is(err, session.ErrEmailTaken) {
		l.Warn(event, "status", 422, "reason", "invalid input", "error", err)
		return c.JSON(http.StatusUnprocessableEntity, Response{Status: "error", Errors: fe})
	}

	switch {
	case errors.Is(err, session.ErrEmailTaken):
		fe, _ := validation.AsErrors(err)
		l.Warn(event, "status", 409, "reason", "email already registered")
		return c.JSON(http.StatusConflict, Response{Status: "error", Errors: fe})
	case errors.Is(err, session.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", "wrong credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect email or password")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "product not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "not an admin")
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	case errors.Is(err, state.ErrCancelled):
		l.Info(event, "status", 409, "reason", "cancelled by another action")
		return echo.NewHTTPError(http.StatusConflict, "operation cancelled")
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func productID(c echo.Context, l *slog.Logger, event string) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 400, "reason", "id is not integer", "error", err)
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}
	return id, nil
}

func (h *API) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.get_products")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items := h.Svc.GetProducts(v, offset, limit)

	l.Debug("get_products_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *API) GetProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "api.get_product")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	id, err := productID(c, l, "get_product_failed")
	if err != nil {
		return err
	}

	p, err := h.Svc.GetProduct(v, id)
	if err != nil {
		return fail(c, l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *API) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.create_product")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	var req catalog.ProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, v, req)
	if err != nil {
		return fail(c, l, "product_create_failed", err)
	}

	l.Info("product_create_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *API) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.update_product")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	id, err := productID(c, l, "product_update_failed")
	if err != nil {
		return err
	}

	var req catalog.ProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.UpdateProduct(ctx, v, id, req)
	if err != nil {
		return fail(c, l, "product_update_failed", err)
	}

	l.Info("product_update_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *API) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.delete_product")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	id, err := productID(c, l, "product_delete_failed")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, v, id); err != nil {
		return fail(c, l, "product_delete_failed", err)
	}

	l.Info("product_delete_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *API) GetSession(c echo.Context) error {
	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: v.State.Snapshot().Session})
}

func (h *API) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.sign_in")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s, err := h.Svc.SignIn(ctx, v, req.Email, req.Password)
	if err != nil {
		return fail(c, l, "sign_in_failed", err)
	}

	l.Info("sign_in_success", "role", string(s.Role))
	return c.JSON(http.StatusOK, sessionResponse{Session: s})
}

func (h *API) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.sign_up")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	var req session.SignUpForm
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_up_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s, err := h.Svc.SignUp(ctx, v, req)
	if err != nil {
		return fail(c, l, "sign_up_failed", err)
	}

	l.Info("sign_up_success")
	return c.JSON(http.StatusCreated, sessionResponse{Session: s})
}

func (h *API) LogOut(c echo.Context) error {
	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	h.Svc.LogOut(c.Request().Context(), v)
	return c.NoContent(http.StatusNoContent)
}
