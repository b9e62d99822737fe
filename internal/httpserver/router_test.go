package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"carecircle/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Care Circle</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medication.html"), []byte("<h1>Medication</h1>"), 0o644))
	return NewRouter(config.ServerConfig{PublicDir: dir}, zap.NewNop())
}

func get(r *Router, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func TestRouterHealthAndPages(t *testing.T) {
	r := newTestRouter(t)

	w := get(r, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Care Circle API is running!")

	w = get(r, "/medication", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Medication")

	w = get(r, "/does/not/exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Care Circle")
}

func TestRouterMetrics(t *testing.T) {
	r := newTestRouter(t)
	get(r, "/api/health", nil)

	w := get(r, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_request_duration_seconds")
	assert.Contains(t, string(body), `path="/api/health"`)
}

func TestRouterCORS(t *testing.T) {
	r := newTestRouter(t)
	// httptest requests are addressed to example.com, so use another site
	w := get(r, "/api/health", map[string]string{"Origin": "http://other.test"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterHasNoAssetDirectories(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/css/site.css", "/js/app.js", "/images/logo.png"} {
		w := get(r, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Care Circle", path)
	}
}
