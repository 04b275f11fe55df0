package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/logging"
	"github.com/cbdpascher/storefront/internal/navigation"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
	"github.com/cbdpascher/storefront/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer implements echo.Renderer over the embedded templates.
type TemplateRenderer struct {
	t *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"stock": func(p *int) string {
			if p == nil {
				return ""
			}
			return fmt.Sprint(*p)
		},
	}
	t, err := template.New("root").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{t: t}, nil
}

// Render executes into a buffer first so a failing template never sends a
// half-written page.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		logging.FromContext(c.Request().Context()).Error("template_execution_failed", "template", name, "error", err)
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// PageData is everything the layout and page templates read.
type PageData struct {
	View    state.View
	Content string
	CSRF    string

	Errors    validation.Errors
	FormError string

	SignInEmail string
	SignUp      session.SignUpForm
	Strength    string

	Product    catalog.ProductForm
	Categories []string
}

func (d PageData) Products() []catalog.Product { return d.View.Catalog.Products() }

func (d PageData) Editing() bool {
	_, ok := d.View.Editing()
	return ok
}

func (d PageData) ManageTab() bool { return d.View.Panel.Tab == navigation.TabManage }

func (d PageData) Err(field string) string { return d.Errors[field] }
