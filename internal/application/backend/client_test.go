package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aquafund-backend/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_NoBaseURL(t *testing.T) {
	c := &Client{}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/v1/ngos"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	assert.Equal(t, "Backend URL not set", apperr.Message(err))
}

func TestDo_ForwardsAuthAndBody(t *testing.T) {
	var gotAuth, gotCT, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotPath = r.URL.RequestURI()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL + "/"}
	resp, err := c.Do(context.Background(), Request{
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Query:         map[string][]string{"source": {"web"}},
		Body:          []byte(`{"name":"A"}`),
		Authorization: "Bearer abc",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"id":"1"}`, string(resp.Body))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, `{"name":"A"}`, gotBody)
	assert.Equal(t, "/api/v1/users?source=web", gotPath)
}

func TestDo_OmitsMissingAuth(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/v1/ngos"})
	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestDo_JSONErrorPassesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/v1/users", Body: []byte(`{}`)})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.Status(err))
	assert.Equal(t, "Email already registered", apperr.Message(err))
}

func TestDo_HTMLErrorIsTruncated(t *testing.T) {
	html := "<html>" + strings.Repeat("x", 500) + "</html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/v1/ngos"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.Status(err))
	assert.Len(t, apperr.Message(err), maxErrorText)
}

func TestDo_TransportFailureIs502(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := &Client{BaseURL: url}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/v1/ngos"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperr.Status(err))
	assert.Equal(t, "Failed to reach backend", apperr.Message(err))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "nope", ErrorMessage(400, []byte(`{"error":"nope"}`)))
	assert.Equal(t, "nested", ErrorMessage(400, []byte(`{"error":{"message":"nested"}}`)))
	assert.Equal(t, "why", ErrorMessage(422, []byte(`{"detail":"why"}`)))
	assert.Equal(t, "Backend request failed with status 500", ErrorMessage(500, []byte(`{"code":17}`)))
	assert.Equal(t, "Backend request failed with status 504", ErrorMessage(504, nil))
	assert.Equal(t, "Bad Gateway", ErrorMessage(502, []byte("Bad Gateway\n")))
}
