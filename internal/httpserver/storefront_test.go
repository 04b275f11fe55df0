package httpserver

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/events"
	"github.com/cbdpascher/storefront/internal/session"
)

func productValues(name, price string) url.Values {
	return url.Values{
		"name":        {name},
		"description": {"Fleurs de chanvre cultivées en France."},
		"price":       {price},
		"category":    {"Fleurs CBD"},
		"stock":       {"40"},
	}
}

func TestHomeListsSeededCatalog(t *testing.T) {
	env := newTestEnv(t)

	body := env.home()
	assert.Contains(t, body, content("home"))
	for _, p := range catalog.Seed().Products() {
		assert.Contains(t, body, p.Price)
	}
	assert.Contains(t, body, "Sign in")
}

func TestNavigation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/page/about")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, env.home(), content("about"))

	env.get("/page/contact")
	assert.Contains(t, env.home(), content("contact"))

	env.get("/page/checkout")
	assert.Contains(t, env.home(), content("home"))

	env.get("/page/login")
	env.get("/page/signup")
	assert.Contains(t, env.home(), content("signup"))
}

func TestVisitsAreIsolated(t *testing.T) {
	a := newTestEnv(t)
	a.get("/page/about")

	b := &testEnv{T: t, E: a.E, Store: a.Store, Events: a.Events, cookies: map[string]*http.Cookie{}}
	assert.Contains(t, b.home(), content("home"))
	assert.Contains(t, a.home(), content("about"))
	assert.Equal(t, 2, a.Store.Len())
}

func TestAdminPageIsRoleGated(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		env := newTestEnv(t)
		env.get("/page/admin")
		body := env.home()
		assert.Contains(t, body, content("access-denied"))
		assert.NotContains(t, body, "Product administration")
	})

	t.Run("user", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(session.DemoUserEmail, session.DemoUserPassword)
		env.get("/page/admin")
		body := env.home()
		assert.Contains(t, body, content("access-denied"))
		assert.NotContains(t, body, "Product administration")
		assert.NotContains(t, body, "admin-link")
	})

	t.Run("admin", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
		env.get("/page/admin")
		body := env.home()
		assert.Contains(t, body, content("admin"))
		assert.Contains(t, body, "Product administration")
		assert.Contains(t, body, "Manage products (3)")
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.get("/page/login")

	rec := env.post("/login", url.Values{"email": {"user.exemple.com"}, "password": {"123456"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address.")
	assert.Contains(t, rec.Body.String(), `value="user.exemple.com"`)

	rec = env.post("/login", url.Values{"email": {"someone@exemple.com"}, "password": {"123456"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect email or password.")

	env.signIn(session.DemoUserEmail, session.DemoUserPassword)
	body := env.home()
	assert.Contains(t, body, content("home"))
	assert.Contains(t, body, "Hello, Utilisateur")
	assert.Equal(t, []string{events.UserSignedIn}, env.Events.Types())
}

func TestSignUp(t *testing.T) {
	env := newTestEnv(t)
	env.get("/page/signup")

	form := url.Values{
		"first_name":       {"Camille"},
		"last_name":        {"Martin"},
		"email":            {session.DemoUserEmail},
		"password":         {"Chanvre2025"},
		"confirm_password": {"Chanvre2025"},
		"accept_terms":     {"true"},
	}
	rec := env.post("/signup", form)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "This email address is already in use.")
	assert.Contains(t, rec.Body.String(), "Strength: Strong")

	weak := url.Values{"first_name": {"Camille"}, "password": {"abc"}}
	rec = env.post("/signup", weak)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Password must be at least 8 characters.")
	assert.Contains(t, body, "Last name is required.")
	assert.Contains(t, body, "You must accept the terms of use.")

	form.Set("email", "camille@exemple.com")
	rec = env.post("/signup", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, env.home(), "Hello, Camille Martin")
}

func TestLogOut(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
	env.get("/page/admin")

	rec := env.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body := env.home()
	assert.Contains(t, body, content("home"))
	assert.NotContains(t, body, "Hello,")
}

func TestFormPostsNeedCSRFToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/login", url.Values{
		"email":      {session.DemoAdminEmail},
		"password":   {session.DemoAdminPassword},
		"csrf_token": {"forged"},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, env.home(), "Hello,")
}

func TestAdminAddEditDelete(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
	env.get("/page/admin")

	rec := env.post("/admin/products", productValues("Fleur Amnesia", "39.99"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := env.home()
	assert.Contains(t, body, "Manage products (4)")
	assert.Contains(t, body, "Fleur Amnesia")
	assert.Contains(t, body, "39.99€")

	rec = env.get("/admin/products/4/edit")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	body = env.home()
	assert.Contains(t, body, "Save changes")
	assert.Contains(t, body, `value="39.99"`)

	rec = env.post("/admin/products", productValues("Fleur Amnesia Haze", "42,50€"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	body = env.home()
	assert.Contains(t, body, "Fleur Amnesia Haze")
	assert.Contains(t, body, "42,50€")
	assert.Contains(t, body, "Manage products (4)")

	rec = env.post("/admin/products/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = env.post("/admin/products/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, env.home(), "Manage products (3)")

	assert.Equal(t, []string{
		events.UserSignedIn, events.ProductCreated, events.ProductUpdated, events.ProductDeleted,
	}, env.Events.Types())
}

func TestAdminFormValidation(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
	env.get("/page/admin")

	form := productValues("", "cheap")
	form.Set("stock", "-3")
	rec := env.post("/admin/products", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Product name is required.")
	assert.Contains(t, body, "Price must be a valid number.")
	assert.Contains(t, body, "Stock must be a whole number.")
	assert.Contains(t, body, `value="cheap"`)

	assert.Contains(t, env.home(), "Manage products (3)")
}

func TestAdminTabsAndCancel(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
	env.get("/page/admin")

	env.get("/admin/tab/manage")
	assert.Contains(t, env.home(), "products-management")

	env.get("/admin/products/2/edit")
	assert.Contains(t, env.home(), "Edit product")

	rec := env.post("/admin/cancel", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	body := env.home()
	assert.Contains(t, body, "Add a new product")
	assert.NotContains(t, body, "Save changes")

	rec = env.get("/admin/products/99/edit")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminActionsDeniedForUser(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoUserEmail, session.DemoUserPassword)

	rec := env.post("/admin/products", productValues("Intrus", "1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), content("access-denied"))

	rec = env.post("/admin/products/1/delete", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, []string{events.UserSignedIn}, env.Events.Types())
}

func TestEmptyCatalogState(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(session.DemoAdminEmail, session.DemoAdminPassword)
	env.get("/page/admin")

	for _, id := range []string{"1", "2", "3"} {
		env.post("/admin/products/"+id+"/delete", nil)
	}
	env.get("/admin/tab/manage")
	assert.Contains(t, env.home(), "No products in the catalog.")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.get("/health/live").Code)
	assert.Equal(t, http.StatusOK, env.get("/health/ready").Code)
}
