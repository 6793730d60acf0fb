package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/roster/internal/directory/http"
	"github.com/aussiebroadwan/roster/internal/directory/service"
	"github.com/aussiebroadwan/roster/internal/directory/store/drivers/memory"
	"github.com/aussiebroadwan/roster/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/aussiebroadwan/roster/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *httpapi.Router {
	t.Helper()
	dir := service.NewDirectory(memory.NewStore(), slogx.Discard())
	r := httpapi.NewRouter(dir, "test", httpapi.DefaultRateLimits(), slogx.Discard())
	r.ApplyRoutes()
	return r
}

func send(t *testing.T, h http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, name, email, secret string) *httptest.ResponseRecorder {
	t.Helper()
	return send(t, h, http.MethodPost, "/v1/accounts", url.Values{
		"name": {name}, "email": {email}, "secret": {secret},
	})
}

func login(t *testing.T, h http.Handler, email, secret string) *httptest.ResponseRecorder {
	t.Helper()
	return send(t, h, http.MethodPost, "/v1/session", url.Values{
		"email": {email}, "secret": {secret},
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rostersdk.ErrorResponse {
	t.Helper()
	var body rostersdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterAccount(t *testing.T) {
	t.Parallel()

	t.Run("created account is returned without its secret", func(t *testing.T) {
		r := newRouter(t)

		rec := register(t, r, "  Ana ", " ana@x.com ", "123")
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotContains(t, rec.Body.String(), "123")
		require.NotContains(t, rec.Body.String(), "secret")

		var acc rostersdk.AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acc))
		require.NotEmpty(t, acc.ID)
		require.Equal(t, "Ana", acc.Name)
		require.Equal(t, "ana@x.com", acc.Email)
		require.False(t, acc.CreatedAt.IsZero())
	})

	t.Run("missing fields", func(t *testing.T) {
		r := newRouter(t)

		for _, form := range []url.Values{
			{"email": {"ana@x.com"}, "secret": {"123"}},
			{"name": {"Ana"}, "secret": {"123"}},
			{"name": {"Ana"}, "email": {"ana@x.com"}},
			{"name": {"   "}, "email": {"ana@x.com"}, "secret": {"123"}},
		} {
			rec := send(t, r, http.MethodPost, "/v1/accounts", form)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, rostersdk.ErrorCodeInvalidRequest, decodeError(t, rec).Error)
		}
	})

	t.Run("duplicate email ignoring case", func(t *testing.T) {
		r := newRouter(t)

		require.Equal(t, http.StatusCreated, register(t, r, "Ana", "ana@x.com", "123").Code)

		rec := register(t, r, "Ana2", "ANA@X.com", "999")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, rostersdk.ErrorCodeDuplicateEmail, decodeError(t, rec).Error)
	})
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("starts anonymous", func(t *testing.T) {
		r := newRouter(t)

		rec := send(t, r, http.MethodGet, "/v1/session", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var s rostersdk.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		require.False(t, s.Authenticated)
		require.Nil(t, s.Account)
		require.Nil(t, s.StartedAt)
	})

	t.Run("login then logout", func(t *testing.T) {
		r := newRouter(t)
		register(t, r, "Ana", "ana@x.com", "123")

		rec := login(t, r, "ANA@x.com", "123")
		require.Equal(t, http.StatusOK, rec.Code)

		var s rostersdk.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		require.True(t, s.Authenticated)
		require.Equal(t, "Ana", s.Account.Name)
		require.NotNil(t, s.StartedAt)

		rec = send(t, r, http.MethodDelete, "/v1/session", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = send(t, r, http.MethodGet, "/v1/session", nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		require.False(t, s.Authenticated)
	})

	t.Run("wrong secret keeps the previous session", func(t *testing.T) {
		r := newRouter(t)
		register(t, r, "Ana", "ana@x.com", "123")
		register(t, r, "Bia", "bia@x.com", "456")
		require.Equal(t, http.StatusOK, login(t, r, "ana@x.com", "123").Code)

		rec := login(t, r, "bia@x.com", "wrong")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, rostersdk.ErrorCodeInvalidCredentials, decodeError(t, rec).Error)

		var s rostersdk.SessionResponse
		rec = send(t, r, http.MethodGet, "/v1/session", nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		require.True(t, s.Authenticated)
		require.Equal(t, "ana@x.com", s.Account.Email)
	})

	t.Run("secret is case sensitive", func(t *testing.T) {
		r := newRouter(t)
		register(t, r, "Ana", "ana@x.com", "abc")

		require.Equal(t, http.StatusUnauthorized, login(t, r, "ana@x.com", "ABC").Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		r := newRouter(t)

		rec := send(t, r, http.MethodPost, "/v1/session", url.Values{"email": {"ana@x.com"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("logout while anonymous", func(t *testing.T) {
		r := newRouter(t)

		rec := send(t, r, http.MethodDelete, "/v1/session", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestListAccounts(t *testing.T) {
	t.Parallel()

	t.Run("requires login", func(t *testing.T) {
		r := newRouter(t)
		register(t, r, "Ana", "ana@x.com", "123")

		rec := send(t, r, http.MethodGet, "/v1/accounts", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, rostersdk.ErrorCodeLoginRequired, decodeError(t, rec).Error)
	})

	t.Run("newest first without secrets", func(t *testing.T) {
		r := newRouter(t)
		register(t, r, "Ana", "ana@x.com", "secret-ana")
		register(t, r, "Bia", "bia@x.com", "secret-bia")
		login(t, r, "ana@x.com", "secret-ana")

		rec := send(t, r, http.MethodGet, "/v1/accounts", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "secret-")

		var list rostersdk.AccountListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list.Accounts, 2)
		require.Equal(t, "Bia", list.Accounts[0].Name)
		require.Equal(t, "Ana", list.Accounts[1].Name)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("livez", func(t *testing.T) {
		r := newRouter(t)

		rec := send(t, r, http.MethodGet, "/livez", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var h rostersdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.Equal(t, "ok", h.Status)
		require.Equal(t, "test", h.Version)
	})

	t.Run("readyz ok", func(t *testing.T) {
		r := newRouter(t)

		rec := send(t, r, http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var h rostersdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.Equal(t, "ok", h.Checks.Store)
	})

	t.Run("readyz degraded when the store is gone", func(t *testing.T) {
		st, err := sqlite.NewStore(":memory:")
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())
		require.NoError(t, st.Close())

		dir := service.NewDirectory(st, slogx.Discard())
		r := httpapi.NewRouter(dir, "test", httpapi.DefaultRateLimits(), slogx.Discard())
		r.ApplyRoutes()

		rec := send(t, r, http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var h rostersdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.Equal(t, "degraded", h.Status)
		require.Contains(t, h.Checks.Store, "error")
	})
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()

	limits := httpapi.DefaultRateLimits()
	limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}

	dir := service.NewDirectory(memory.NewStore(), slogx.Discard())
	r := httpapi.NewRouter(dir, "test", limits, slogx.Discard())
	r.ApplyRoutes()

	require.Equal(t, http.StatusUnauthorized, login(t, r, "ana@x.com", "1").Code)
	require.Equal(t, http.StatusUnauthorized, login(t, r, "ana@x.com", "2").Code)

	rec := login(t, r, "ANA@x.com", "3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// another email from the same address has its own bucket
	require.Equal(t, http.StatusUnauthorized, login(t, r, "bia@x.com", "1").Code)
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	rec := send(t, r, http.MethodGet, "/livez", nil)
	require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))
}

func TestLoginResponseDescribesCaller(t *testing.T) {
	t.Parallel()

	generous := httpx.RateLimitConfig{RequestsPerWindow: 1_000_000, Window: time.Second, Burst: 1_000_000}
	limits := httpapi.RateLimits{Strict: generous, Moderate: generous, Lenient: generous}

	dir := service.NewDirectory(memory.NewStore(), slogx.Discard())
	r := httpapi.NewRouter(dir, "test", limits, slogx.Discard())
	r.ApplyRoutes()

	register(t, r, "Ana", "ana@x.com", "123")
	register(t, r, "Bia", "bia@x.com", "456")

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			default:
			}
			req := httptest.NewRequest(http.MethodDelete, "/v1/session", nil)
			r.ServeHTTP(httptest.NewRecorder(), req)

			form := url.Values{"email": {"bia@x.com"}, "secret": {"456"}}
			req = httptest.NewRequest(http.MethodPost, "/v1/session", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			r.ServeHTTP(httptest.NewRecorder(), req)
		}
	}()
	t.Cleanup(func() {
		close(done)
		<-stopped
	})

	for range 2000 {
		rec := login(t, r, "ana@x.com", "123")
		require.Equal(t, http.StatusOK, rec.Code)

		var s rostersdk.SessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		require.True(t, s.Authenticated)
		require.NotNil(t, s.Account)
		require.Equal(t, "ana@x.com", s.Account.Email)
	}
}

func TestSwaggerDoc(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	rec := send(t, r, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "Roster Directory Service API", doc.Info.Title)

	for path, methods := range map[string][]string{
		"/v1/accounts": {"get", "post"},
		"/v1/session":  {"get", "post", "delete"},
		"/livez":       {"get"},
		"/readyz":      {"get"},
	} {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			require.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}
}
