package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cbdpascher/storefront/internal/middleware/auth"
	"github.com/cbdpascher/storefront/internal/middleware/csrf"
	"github.com/cbdpascher/storefront/internal/middleware/visit"
)

type Deps struct {
	Storefront *StorefrontHTTP
	API        *API
	Visits     *visit.Middleware
	CSRF       csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	site := e.Group("", d.Visits.Load, csrf.Middleware(d.CSRF))

	site.GET("/", d.Storefront.Index)
	site.GET("/page/:page", d.Storefront.Navigate)
	site.POST("/login", d.Storefront.Login)
	site.POST("/signup", d.Storefront.SignUp)
	site.POST("/logout", d.Storefront.LogOut)

	admin := site.Group("/admin")
	admin.GET("/tab/:tab", d.Storefront.SelectTab)
	admin.GET("/products/:id/edit", d.Storefront.EditProduct)
	admin.POST("/products", d.Storefront.SubmitProduct)
	admin.POST("/products/:id/delete", d.Storefront.DeleteProduct)
	admin.POST("/cancel", d.Storefront.CancelEdit)

	v1 := e.Group("/api/v1", d.Visits.Load)

	products := v1.Group("/products")
	products.GET("", d.API.GetProducts)
	products.GET("/:id", d.API.GetProduct)

	adminProducts := products.Group("", auth.RequireAdmin)
	adminProducts.POST("", d.API.CreateProduct)
	adminProducts.PUT("/:id", d.API.UpdateProduct)
	adminProducts.DELETE("/:id", d.API.DeleteProduct)

	sess := v1.Group("/session")
	sess.GET("", d.API.GetSession, auth.RequireAuth)
	sess.POST("/signin", d.API.SignIn)
	sess.POST("/signup", d.API.SignUp)
	sess.POST("/logout", d.API.LogOut)
}
