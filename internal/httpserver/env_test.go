package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/cbdpascher/storefront/internal/catalog"
	"github.com/cbdpascher/storefront/internal/events/eventstest"
	"github.com/cbdpascher/storefront/internal/middleware/csrf"
	"github.com/cbdpascher/storefront/internal/middleware/visit"
	"github.com/cbdpascher/storefront/internal/service"
	"github.com/cbdpascher/storefront/internal/session"
	"github.com/cbdpascher/storefront/internal/state"
)

var accounts = session.NewDemoAccounts()

// testEnv drives the full router like a browser: it keeps cookies between
// requests and echoes the CSRF token back on form posts.
type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Store   *state.Store
	Events  *eventstest.Recorder
	cookies map[string]*http.Cookie
	csrf    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	store := state.NewStore(time.Hour, catalog.Seed)
	rec := &eventstest.Recorder{}
	svc := &service.StorefrontService{Accounts: accounts, Publisher: rec}

	e := echo.New()
	e.Renderer = renderer
	Register(e, &Deps{
		Storefront: &StorefrontHTTP{Svc: svc},
		API:        &API{Svc: svc},
		Visits:     &visit.Middleware{Store: store, Secret: []byte("test-secret"), TTL: time.Hour},
		CSRF:       csrf.Config{SkipPrefixes: []string{"/api/"}},
	})

	env := &testEnv{T: t, E: e, Store: store, Events: rec, cookies: map[string]*http.Cookie{}}
	env.get("/")
	require.NotEmpty(t, env.csrf)
	return env
}

func (env *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Origin", "http://example.com")
	for _, c := range env.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(env.cookies, c.Name)
			continue
		}
		env.cookies[c.Name] = c
	}
	if tok := rec.Header().Get("X-CSRF-Token"); tok != "" {
		env.csrf = tok
	}
	return rec
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	return env.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (env *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", env.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return env.send(req)
}

func (env *testEnv) json(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return env.send(req)
}

// home follows the post-redirect-get pattern and returns the rendered page.
func (env *testEnv) home() string {
	rec := env.get("/")
	require.Equal(env.T, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func (env *testEnv) signIn(email, password string) {
	rec := env.post("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(env.T, http.StatusSeeOther, rec.Code)
}

func content(name string) string {
	return `data-content="` + name + `"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
