package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/ssargent/osrkit/pkg/archive"
	"github.com/ssargent/osrkit/pkg/osr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()

	replayCodec := osr.NewCodec()
	a, err := archive.Open(t.TempDir(), replayCodec, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	reg := prometheus.NewRegistry()
	server := NewServer(a, replayCodec, ServerConfig{APIKey: "test-key"}, NewMetrics(reg), zerolog.Nop())
	return NewRouter(server, reg), reg
}

func doRequest(router http.Handler, method, path string, body []byte, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		apiKey         string
		expectedStatus int
	}{
		{"no key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"right key", "test-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "GET", "/api/v1/health", nil, tt.apiKey)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_ReplayLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)
	raw := testReplayBytes(t, testScoreHash)

	w := doRequest(router, "POST", "/api/v1/replays", raw, "test-key")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry archive.Entry
	decodeResponse(t, w, &entry)
	assert.Equal(t, "/api/v1/replays/"+entry.ID, w.Header().Get("Location"))

	w = doRequest(router, "POST", "/api/v1/replays", raw, "test-key")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, "GET", "/api/v1/replays/"+entry.ID, nil, "test-key")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/api/v1/replays/"+entry.ID+"/frames.csv", nil, "test-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "time,mouse_x,mouse_y,button_state\n"))

	w = doRequest(router, "GET", "/api/v1/replays/"+entry.ID+"/raw", nil, "test-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, raw, w.Body.Bytes())

	w = doRequest(router, "DELETE", "/api/v1/replays/"+entry.ID, nil, "test-key")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/api/v1/replays/"+entry.ID, nil, "test-key")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := setupTestRouter(t)

	doRequest(router, "POST", "/api/v1/decode", testReplayBytes(t, testScoreHash), "test-key")
	doRequest(router, "POST", "/api/v1/decode", []byte("garbage"), "test-key")

	w := doRequest(router, "GET", "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `osrkit_codec_operations_total{operation="decode",status="success"} 1`)
	assert.Contains(t, body, `osrkit_codec_operations_total{operation="decode",status="error"} 1`)
	assert.Contains(t, body, `osrkit_http_requests_total{endpoint="/api/v1/decode",method="POST",status_code="422"} 1`)
	assert.Contains(t, body, "osrkit_decoded_frames_count 1")
	assert.Contains(t, body, `osrkit_auth_requests_total{status="success"} 2`)
}

func TestRouter_Swagger(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/swagger/swagger.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc struct {
		Swagger  string                 `json:"swagger"`
		BasePath string                 `json:"basePath"`
		Paths    map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/replays/{id}/frames.csv")

	w = doRequest(router, "GET", "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = doRequest(router, "GET", "/swagger/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
