package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, cl *client, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	return cl.postForm("/admin/login", url.Values{"username": {user}, "password": {pass}})
}

func TestAdmin_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/messages", "/admin/visitors", "/admin/export/stats"} {
		w := env.client(t).get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}
}

func TestAdmin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)

	w := login(t, cl, "nico", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.NotContains(t, cl.cookies, adminCookie)
}

func TestAdmin_LoginFlow(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)

	w := login(t, cl, "nico", "s3cret")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	require.Contains(t, cl.cookies, adminCookie)

	w = cl.get("/admin/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total visitors")

	w = cl.get("/admin/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.Contains(t, stats, "total_visitors")
	assert.Contains(t, stats, "active_sessions")

	w = cl.get("/admin/export/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))

	w = cl.get("/admin/logout")
	require.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, cl.cookies, adminCookie)

	w = cl.get("/admin/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdmin_MessagesAndVisitors(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)

	require.Equal(t, http.StatusOK, cl.postForm("/contact", validForm()).Code)
	require.NoError(t, env.db.RecordVisit(context.Background(), "abcd1234abcd1234", "curl", "/pricing", time.Now()))

	require.Equal(t, http.StatusFound, login(t, cl, "nico", "s3cret").Code)

	w := cl.get("/admin/messages")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	w = cl.get("/admin/visitors")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abcd1234abcd1234")
}

func TestAdmin_PrivacyCleanup(t *testing.T) {
	env := newTestEnv(t)
	cl := env.client(t)
	ctx := context.Background()

	require.NoError(t, env.db.RecordVisit(ctx, "old", "curl", "/", time.Now().AddDate(-2, 0, 0)))
	require.NoError(t, env.db.RecordVisit(ctx, "new", "curl", "/", time.Now()))
	require.Equal(t, http.StatusFound, login(t, cl, "nico", "s3cret").Code)

	w := cl.do(httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"privacy cleanup complete","removed":1}`, w.Body.String())
}

func TestPrivacyPage(t *testing.T) {
	env := newTestEnv(t)
	w := env.client(t).get("/privacy")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Do Not Track")
}

func TestVisitorTracking(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	want := env.srv.admin.hashIP("203.0.113.7")
	assert.Eventually(t, func() bool {
		visitors, err := env.db.RecentVisitors(context.Background(), 10)
		return err == nil && len(visitors) == 1 && visitors[0].HashedIP == want && visitors[0].Path == "/"
	}, time.Second, 10*time.Millisecond)
}

func TestShouldTrack(t *testing.T) {
	tests := []struct {
		path string
		dnt  string
		want bool
	}{
		{"/", "", true},
		{"/pricing", "", true},
		{"/", "1", false},
		{"/static/site.css", "", false},
		{"/images/logo.png", "", false},
		{"/admin/dashboard", "", false},
		{"/favicon.ico", "", false},
		{"/privacy", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldTrack(tt.path, tt.dnt), "%s dnt=%q", tt.path, tt.dnt)
	}
}

func TestHashIP(t *testing.T) {
	a := newAdminAuth(AdminCredentials{Username: "u", Password: "p"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b := newAdminAuth(AdminCredentials{Username: "u", Password: "p"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := a.hashIP("198.51.100.1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, a.hashIP("198.51.100.1"))
	assert.NotEqual(t, h, a.hashIP("198.51.100.2"))
	assert.NotEqual(t, h, b.hashIP("198.51.100.1"), "salt differs per process")
}

func TestAdminDefaults(t *testing.T) {
	a := newAdminAuth(AdminCredentials{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.True(t, a.checkLogin("admin", "admin123"))
	assert.False(t, a.checkLogin("admin", ""))
}

func TestRunVisitorCleanup(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, env.db.RecordVisit(ctx, "old", "curl", "/", time.Now().AddDate(-2, 0, 0)))

	done := make(chan struct{})
	go func() {
		RunVisitorCleanup(ctx, env.db, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		visitors, err := env.db.RecentVisitors(context.Background(), 10)
		return err == nil && len(visitors) == 0
	}, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestTemplateFuncs(t *testing.T) {
	dollars := templateFuncs["dollars"].(func(int) string)
	assert.Equal(t, "$500", dollars(500))
	assert.Equal(t, "$1,000", dollars(1000))
	assert.Equal(t, "$12,345", dollars(12345))
}
