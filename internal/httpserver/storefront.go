package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/middleware/csrf"
	"github.com/cbdpascher/storefront/internal/middleware/visit"
	"github.com/cbdpascher/storefront/internal/navigation"
	"github.com/cbdpascher/storefront/internal/service"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
	"github.com/cbdpascher/storefront/internal/validation"
)

// StorefrontHTTP serves the server-rendered pages.
type StorefrontHTTP struct {
	Svc *service.StorefrontService
}

type signInForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func currentVisit(c echo.Context) (state.Visit, error) {
	v, ok := visit.FromContext(c)
	if !ok {
		return state.Visit{}, echo.NewHTTPError(http.StatusInternalServerError, "visit not loaded")
	}
	return v, nil
}

// page builds the template data for the visit's current state.
func page(c echo.Context, v state.Visit) PageData {
	view := v.State.Snapshot()
	d := PageData{
		View:       view,
		Content:    navigation.Content(view.Page, view.Session.IsAdmin()),
		Categories: catalog.Categories,
	}
	if tok, ok := c.Get(csrf.ContextKey).(string); ok {
		d.CSRF = tok
	}
	if p, ok := view.Editing(); ok {
		d.Product = catalog.FormFromProduct(p)
	}
	return d
}

func backHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *StorefrontHTTP) Index(c echo.Context) error {
	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "layout", page(c, v))
}

func (h *StorefrontHTTP) Navigate(c echo.Context) error {
	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	p := h.Svc.Navigate(v, c.Param("page"))
	logging.FromContext(c.Request().Context()).Debug("navigated", "page", string(p))
	return backHome(c)
}

func (h *StorefrontHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.login")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	var req signInForm
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err = h.Svc.SignIn(ctx, v, req.Email, req.Password)
	if err == nil {
		l.Info("sign_in_success")
		return backHome(c)
	}

	d := page(c, v)
	d.Content = string(navigation.Login)
	d.SignInEmail = req.Email

	switch fe, isValidation := validation.AsErrors(err); {
	case isValidation:
		l.Warn("sign_in_failed", "status", 422, "reason", "invalid input", "error", err)
		d.Errors = fe
		return c.Render(http.StatusUnprocessableEntity, "layout", d)
	case errors.Is(err, session.ErrInvalidCredentials):
		l.Warn("sign_in_failed", "status", 401, "reason", "wrong credentials")
		d.FormError = "Incorrect email or password."
		return c.Render(http.StatusUnauthorized, "layout", d)
	case errors.Is(err, state.ErrCancelled):
		l.Info("sign_in_cancelled", "reason", "visit moved on")
		return backHome(c)
	default:
		l.Error("sign_in_failed", "status", 500, "reason", "cannot sign in", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign in")
	}
}

func (h *StorefrontHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.signup")

	v, err := currentVisit(c)
	if err != nil {
		return err
	}

	var req session.SignUpForm
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_up_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	_, err = h.Svc.SignUp(ctx, v, req)
	if err == nil {
		l.Info("sign_up_success")
		return backHome(c)
	}
	if errors.Is(err, state.ErrCancelled) {
		l.Info("sign_up_cancelled", "reason", "visit moved on")
		return backHome(c)
	}

	fe, ok := validation.AsErrors(err)
	if !ok {
		l.Error("sign_up_failed", "status", 500, "reason", "cannot sign up", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign up")
	}

	d := page(c, v)
	d.Content = string(navigation.SignUp)
	d.Errors = fe
	d.SignUp = session.SignUpForm{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		AcceptTerms: req.AcceptTerms,
	}
	if req.Password != "" {
		d.Strength = session.StrengthLabel(session.PasswordStrength(req.Password))
	}

	status := http.StatusUnprocessableEntity
	if errors.Is(err, session.ErrEmailTaken) {
		status = http.StatusConflict
	}
	l.Warn("sign_up_failed", "status", status, "reason", "invalid input", "error", err)
	return c.Render(status, "layout", d)
}

func (h *StorefrontHTTP) LogOut(c echo.Context) error {
	v, err := currentVisit(c)
	if err != nil {
		return err
	}
	h.Svc.LogOut(c.Request().Context(), v)
	return backHome(c)
}

// adminVisit returns the visit when it belongs to an admin. Otherwise it
// renders the access-denied view and ok is false.
func (h *StorefrontHTTP) adminVisit(c echo.Context) (v state.Visit, ok bool, err error) {
	v, err = currentVisit(c)
	if err != nil {
		return v, false, err
	}
	if v.State.Snapshot().Session.IsAdmin() {
		return v, true, nil
	}
	logging.FromContext(c.Request().Context()).Warn("admin_action_denied", "status", 403, "path", c.Path())
	d := page(c, v)
	d.Content = navigation.AccessDenied
	return v, false, c.Render(http.StatusForbidden, "layout", d)
}

func (h *StorefrontHTTP) SelectTab(c echo.Context) error {
	v, ok, err := h.adminVisit(c)
	if !ok {
		return err
	}
	v.State.SelectTab(navigation.ParseTab(c.Param("tab")))
	return backHome(c)
}

func (h *StorefrontHTTP) EditProduct(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "storefront.edit_product")

	v, ok, err := h.adminVisit(c)
	if !ok {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("edit_product_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}
	if !v.State.StartEdit(id) {
		l.Warn("edit_product_failed", "status", 404, "reason", "product not found", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return backHome(c)
}

func (h *StorefrontHTTP) CancelEdit(c echo.Context) error {
	v, ok, err := h.adminVisit(c)
	if !ok {
		return err
	}
	v.State.CancelEdit()
	return backHome(c)
}

func (h *StorefrontHTTP) SubmitProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.submit_product")

	v, ok, err := h.adminVisit(c)
	if !ok {
		return err
	}

	var req catalog.ProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("product_submit_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	p, err := h.Svc.SubmitProduct(ctx, v, req)
	switch fe, isValidation := validation.AsErrors(err); {
	case err == nil:
		l.Info("product_submit_success", "product_id", p.ID)
		return backHome(c)
	case isValidation:
		l.Warn("product_submit_failed", "status", 422, "reason", "invalid input", "error", err)
		d := page(c, v)
		d.Content = string(navigation.Admin)
		d.Errors = fe
		d.Product = req
		return c.Render(http.StatusUnprocessableEntity, "layout", d)
	case errors.Is(err, state.ErrCancelled):
		l.Info("product_submit_cancelled", "reason", "visit moved on")
		return backHome(c)
	case errors.Is(err, service.ErrForbidden):
		l.Warn("product_submit_failed", "status", 403, "reason", "session changed")
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	default:
		l.Error("product_submit_failed", "status", 500, "reason", "cannot save product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save product")
	}
}

func (h *StorefrontHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.delete_product")

	v, ok, err := h.adminVisit(c)
	if !ok {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	if err := h.Svc.DeleteProduct(ctx, v, id); err != nil && !errors.Is(err, service.ErrNotFound) {
		l.Error("product_delete_failed", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}
	l.Info("product_delete_success", "product_id", id)
	return backHome(c)
}
