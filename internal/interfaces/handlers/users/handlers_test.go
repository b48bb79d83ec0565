package users

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/interfaces/handlers/proxy"
	"aquafund-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUsers(t *testing.T, reply string) (*fiber.App, *int32, *string) {
	t.Helper()
	var hits int32
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		path = r.Method + " " + r.URL.Path
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	h := &Handlers{Proxy: &proxy.Proxy{Backend: &backend.Client{BaseURL: srv.URL}}}
	app := fiber.New()
	app.Post("/api/v1/users", h.Create)
	app.Get("/api/v1/users/:id", h.Get)
	app.Put("/api/v1/users/:id", middleware.RequireAuthorization(), h.Update)
	return app, &hits, &path
}

func post(t *testing.T, app *fiber.App, method, target, body string, auth string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func TestCreate_InvalidFormats(t *testing.T) {
	app, hits, _ := setupUsers(t, `{}`)
	resp, body := post(t, app, "POST", "/api/v1/users",
		`{"name":"A","email":"bad-email","wallet":"0x123","companyName":"X","role":"donor"}`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid format: email, wallet"}`, body)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestCreate_MissingFields(t *testing.T) {
	app, _, _ := setupUsers(t, `{}`)
	resp, body := post(t, app, "POST", "/api/v1/users", `{"name":"A","role":"owner"}`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Missing required fields: email, wallet, companyName"}`, body)
}

func TestCreate_Forwards(t *testing.T) {
	app, hits, path := setupUsers(t, `{"id":"u1"}`)
	resp, body := post(t, app, "POST", "/api/v1/users",
		`{"name":"A","email":"a@b.co","wallet":"0x52908400098527886E0F7030069857D2E4169EE7","companyName":"X","role":"ngo"}`, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"u1"}`, body)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Equal(t, "POST /api/v1/users", *path)
}

func TestGet_UnwrapsData(t *testing.T) {
	app, _, path := setupUsers(t, `{"success":true,"data":{"id":"u1","name":"A"}}`)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/u1", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"id":"u1","name":"A"}`, string(b))
	assert.Equal(t, "GET /api/v1/users/u1", *path)
}

func TestUpdate(t *testing.T) {
	app, hits, _ := setupUsers(t, `{"ok":true}`)

	resp, _ := post(t, app, "PUT", "/api/v1/users/u1", `{"name":"B"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := post(t, app, "PUT", "/api/v1/users/u1", `{"wallet":"nope"}`, "Bearer t")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid format: wallet"}`, body)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))

	resp, _ = post(t, app, "PUT", "/api/v1/users/u1", `{"name":"B"}`, "Bearer t")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}
