package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminKey = "setup-secret"
	testUsername = "admin"
	testPassword = "correct-horse"
)

type testEnv struct {
	router   *chi.Mux
	projects *memoryProjects
	posts    *memoryBlogPosts
	messages *memoryMessages
	notifier *stubNotifier
	health   *stubHealth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, config.Config{
		AcceptedOrigins:       []string{"*"},
		ContactRateLimitScope: config.ScopeGlobal,
	})
}

func newTestEnvWithConfig(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenIssuer("test-signing-secret")
	require.NoError(t, err)
	service := auth.NewService(newMemoryAdmins(), tokens, auth.NewHasher(bcrypt.MinCost), testAdminKey)

	env := &testEnv{
		projects: newMemoryProjects(),
		posts:    newMemoryBlogPosts(),
		messages: &memoryMessages{},
		notifier: &stubNotifier{},
		health:   &stubHealth{},
	}
	env.router = newRouter(cfg, Dependencies{
		Projects:  env.projects,
		BlogPosts: env.posts,
		Messages:  env.messages,
		Auth:      service,
		Verifier:  auth.NewBearerVerifier(tokens),
		Notifier:  env.notifier,
		Health:    env.health,
	}, NewMetrics())
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

// login runs setup then login and returns a session token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec, _ := e.do(t, http.MethodPost, "/api/auth/setup", map[string]string{
		"username": testUsername, "password": testPassword, "setupKey": testAdminKey,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testUsername, "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "portfolio-backend", body["service"])

	rec, body = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	env.health.err = errors.New("dial tcp: connection refused")
	rec, body = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Server error", body["error"])
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["ok"])

	rec, body = env.do(t, http.MethodPatch, "/api/projects", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestAdminRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodPut, "/api/projects/1"},
		{http.MethodDelete, "/api/projects/1"},
		{http.MethodGet, "/api/admin/projects"},
		{http.MethodGet, "/api/blogs"},
		{http.MethodPost, "/api/blogs"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/auth/verify"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec, body := env.do(t, route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, false, body["ok"])

			rec, _ = env.do(t, route.method, route.path, nil, "not-a-jwt")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Empty(t, env.projects.rows)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec, body := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"title":   "  Portfolio  ",
		"tag":     "Web",
		"year":    2024,
		"tech":    "Go, React, ,SQL",
		"details": "Built the API\n\nShipped it",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["ok"])
	id := int(body["id"].(float64))

	rec, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	project := body["project"].(map[string]any)
	assert.Equal(t, "Portfolio", project["title"])
	assert.Equal(t, "2024", project["year"])
	assert.Equal(t, []any{"Go", "React", "SQL"}, project["tech"])
	assert.Equal(t, []any{"Built the API", "Shipped it"}, project["details"])
	assert.Equal(t, float64(0), project["sortOrder"])
	assert.Equal(t, true, project["isActive"])

	rec, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%d", id), map[string]any{
		"title":    "Portfolio v2",
		"tech":     []string{"Go"},
		"isActive": false,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "inactive projects are hidden publicly")

	rec, body = env.do(t, http.MethodGet, "/api/admin/projects", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	all := body["projects"].([]any)
	require.Len(t, all, 1)
	assert.Equal(t, "Portfolio v2", all[0].(map[string]any)["title"])
	assert.Equal(t, []any{}, all[0].(map[string]any)["details"])

	for range 2 {
		rec, body = env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["ok"])
	}
	assert.Empty(t, env.projects.rows)
}

func TestProjectValidationAndMissingRows(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec, body := env.do(t, http.MethodPost, "/api/projects", map[string]any{"title": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required.", body["error"])
	assert.Equal(t, "title", body["field"])

	rec, _ = env.do(t, http.MethodPost, "/api/projects", `{"title":`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/projects", `{"title":"Big","sortOrder":3000000000}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "sortOrder", body["field"])
	assert.Empty(t, env.projects.rows)

	rec, _ = env.do(t, http.MethodPut, "/api/projects/999", map[string]any{"title": "Ghost"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/projects/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectOrderingAndPagination(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	create := func(title string, sortOrder int, year string) {
		rec, _ := env.do(t, http.MethodPost, "/api/projects", map[string]any{
			"title": title, "sortOrder": sortOrder, "year": year,
		}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	create("Older", 1, "2020")
	create("Newer", 1, "2023")
	create("Pinned", 0, "2019")
	for i := range 9 {
		create(fmt.Sprintf("Filler %d", i), 5, "2018")
	}

	rec, body := env.do(t, http.MethodGet, "/api/public/projects", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["projects"].([]any)
	require.Len(t, list, 12)
	var firstThree []string
	for _, p := range list[:3] {
		firstThree = append(firstThree, p.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"Pinned", "Newer", "Older"}, firstThree)
	assert.NotContains(t, body, "pagination")

	rec, body = env.do(t, http.MethodGet, "/api/projects?page=3&limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["projects"], 2)
	assert.Equal(t, map[string]any{
		"page": float64(3), "limit": float64(5), "total": float64(12), "totalPages": float64(3),
	}, body["pagination"])

	rec, body = env.do(t, http.MethodGet, "/api/projects?page=1&limit=1000", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), body["pagination"].(map[string]any)["limit"])

	rec, body = env.do(t, http.MethodGet, "/api/projects?page=4611686018427387905&limit=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, body["projects"])
	assert.Equal(t, float64(maxPage), body["pagination"].(map[string]any)["page"])
}

func TestBlogPosts(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec, body := env.do(t, http.MethodPost, "/api/blogs", map[string]any{
		"title":    "Hello",
		"category": "Engineering",
		"content":  "# Hello\n\n<script>alert(1)</script>\n\nSome *text*.",
		"featured": "yes",
		"readTime": 5,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := int(body["id"].(float64))

	rec, _ = env.do(t, http.MethodPost, "/api/blogs", map[string]any{
		"title": "Draft", "category": "Life", "isActive": 0,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/public/blogs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["blogs"], 1)
	first := body["blogs"].([]any)[0].(map[string]any)
	assert.Equal(t, true, first["featured"])
	assert.Equal(t, "5", first["readTime"])
	assert.NotContains(t, first, "contentHtml")

	rec, body = env.do(t, http.MethodGet, "/api/public/blogs?category=engineering", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["blogs"], 1)

	rec, body = env.do(t, http.MethodGet, "/api/public/blogs?category=Travel", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["blogs"])

	rec, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/public/blogs/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	html := body["blog"].(map[string]any)["contentHtml"].(string)
	assert.Contains(t, html, `<h1 id="hello">Hello</h1>`)
	assert.NotContains(t, html, "<script>")

	rec, body = env.do(t, http.MethodGet, "/api/blogs?page=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["blogs"], 2)
	assert.Equal(t, float64(2), body["pagination"].(map[string]any)["total"])

	rec, _ = env.do(t, http.MethodPut, "/api/blogs/999", map[string]any{"title": "Nope"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/blogs", map[string]any{"content": "untitled"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title", body["field"])
}

func TestContactSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errs.NewNotificationError("email", http.StatusBadGateway, errors.New("provider down"))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(
		`{"name":"  Ada Lovelace ","email":"ada@example.com","message":"Hello there, nice site!"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	stored := env.messages.all()
	require.Len(t, stored, 1)
	assert.Equal(t, "Ada Lovelace", stored[0].FullName)
	assert.Equal(t, "203.0.113.9", stored[0].IPAddress)
	assert.Equal(t, "test-agent", stored[0].UserAgent)
	assert.Equal(t, 1, env.notifier.calls)

	rec, _ = env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	metrics := rec.Body.String()
	assert.Contains(t, metrics, `portfolio_notification_failures_total{channel="email"} 1`)
	assert.Contains(t, metrics, `portfolio_contact_submissions_total{result="stored"} 1`)
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		body  map[string]string
		field string
	}{
		{map[string]string{"name": "A", "email": "a@b.co", "message": "long enough message"}, "name"},
		{map[string]string{"name": "Ada", "email": "not-an-email", "message": "long enough message"}, "email"},
		{map[string]string{"name": "Ada", "email": "a@b.co", "message": "short"}, "message"},
	}
	for _, tc := range cases {
		rec, body := env.do(t, http.MethodPost, "/api/contact", tc.body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, tc.field, body["field"])
	}
	assert.Empty(t, env.messages.all())
	assert.Zero(t, env.notifier.calls)
}

func TestContactRateLimit(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello there, nice site!"}

	for i := range ContactRateLimit {
		rec, _ := env.do(t, http.MethodPost, "/api/contact", payload, "")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec, body := env.do(t, http.MethodPost, "/api/contact", payload, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests, please try again later.", body["error"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Len(t, env.messages.all(), ContactRateLimit)
}

func TestMessagesListing(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	for i := range 7 {
		rec, _ := env.do(t, http.MethodPost, "/api/contact", map[string]string{
			"name": "Ada", "email": "ada@example.com", "message": fmt.Sprintf("Message number %d", i),
		}, "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := env.do(t, http.MethodGet, "/api/messages", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := body["messages"].([]any)
	require.Len(t, messages, 7)
	assert.Equal(t, "Message number 6", messages[0].(map[string]any)["message"])
	assert.Equal(t, float64(25), body["pagination"].(map[string]any)["limit"])

	rec, body = env.do(t, http.MethodGet, "/api/messages?page=2&size=2", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["messages"], 2)
	assert.Equal(t, map[string]any{
		"page": float64(2), "limit": float64(5), "total": float64(7), "totalPages": float64(2),
	}, body["pagination"])
}

func TestStoreFailuresAreOpaque(t *testing.T) {
	env := newTestEnv(t)
	env.projects.err = errors.New("pq: relation \"projects\" does not exist")

	rec, body := env.do(t, http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/auth/setup", map[string]string{
		"username": testUsername, "password": testPassword, "setupKey": "wrong",
	}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, body["ok"])

	token := env.login(t)

	rec, _ = env.do(t, http.MethodPost, "/api/auth/setup", map[string]string{
		"username": "second", "password": testPassword, "setupKey": testAdminKey,
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testUsername, "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["ok"])

	rec, body = env.do(t, http.MethodGet, "/api/auth/verify", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUsername, body["user"].(map[string]any)["username"])

	rec, body = env.do(t, http.MethodPost, "/api/auth/update-profile", map[string]string{"username": "owner"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "owner", body["user"].(map[string]any)["username"])
	assert.NotEmpty(t, body["token"])

	rec, _ = env.do(t, http.MethodPost, "/api/auth/update-profile", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetupRejectsOverlongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/auth/setup", map[string]string{
		"username": testUsername, "password": strings.Repeat("x", 80), "setupKey": testAdminKey,
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "password", body["field"])
	assert.Equal(t, "Password must be at most 72 bytes.", body["error"])
}

func TestPasswordRecovery(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	rec, body := env.do(t, http.MethodPost, "/api/auth/recovery", map[string]string{
		"username": testUsername, "recoveryKey": testAdminKey,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	recoveryToken := body["recoveryToken"].(string)
	assert.NotEmpty(t, body["expiresAt"])

	reset := map[string]string{"recoveryToken": recoveryToken, "newPassword": "brand-new-pass"}
	rec, _ = env.do(t, http.MethodPost, "/api/auth/reset-password", reset, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodPost, "/api/auth/reset-password", reset, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "recovery tokens work once")

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testUsername, "password": "brand-new-pass",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginThrottle(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"username": "nobody", "password": "whatever"}

	for range LoginBurst {
		rec, _ := env.do(t, http.MethodPost, "/api/auth/login", creds, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec, _ := env.do(t, http.MethodPost, "/api/auth/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func (e *testEnv) postFrom(t *testing.T, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginThrottleIgnoresForwardedFor(t *testing.T) {
	env := newTestEnv(t)
	creds := `{"username":"nobody","password":"whatever"}`

	rejected := 0
	for i := range 3 * LoginBurst {
		rec := env.postFrom(t, "/api/auth/login", creds, map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1),
			"X-Real-IP":       fmt.Sprintf("198.51.100.%d", i+1),
		})
		if rec.Code == http.StatusTooManyRequests {
			rejected++
		}
	}
	assert.Equal(t, 2*LoginBurst, rejected, "rotated forwarding headers share the connection's bucket")
}

func TestContactRateLimitPerIPIgnoresForwardedFor(t *testing.T) {
	env := newTestEnvWithConfig(t, config.Config{
		AcceptedOrigins:       []string{"*"},
		ContactRateLimitScope: config.ScopeIP,
	})
	payload := `{"name":"Ada","email":"ada@example.com","message":"Hello there, nice site!"}`

	for i := range ContactRateLimit {
		rec := env.postFrom(t, "/api/contact", payload, map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1),
		})
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
	rec := env.postFrom(t, "/api/contact", payload, map[string]string{"X-Forwarded-For": "192.0.2.200"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	stored := env.messages.all()
	require.Len(t, stored, ContactRateLimit)
	assert.Equal(t, "203.0.113.1", stored[0].IPAddress, "the forwarded address is still recorded")
}

func TestTrustProxyKeysOnForwardedAddress(t *testing.T) {
	env := newTestEnvWithConfig(t, config.Config{
		AcceptedOrigins:       []string{"*"},
		ContactRateLimitScope: config.ScopeGlobal,
		TrustProxy:            true,
	})
	creds := `{"username":"nobody","password":"whatever"}`

	for i := range 2 * LoginBurst {
		rec := env.postFrom(t, "/api/auth/login", creds, map[string]string{
			"X-Real-IP": fmt.Sprintf("198.51.100.%d", i+1),
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "request %d", i+1)
	}
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
