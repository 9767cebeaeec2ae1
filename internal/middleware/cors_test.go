package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/planner/backend/internal/middleware"
)

const webOrigin = "http://localhost:3000"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSHandler_Preflight(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		method  string
		path    string
		wantOK  bool
	}{
		{"create trip from web app", []string{webOrigin}, webOrigin, http.MethodPost, "/trips", true},
		{"update trip", []string{webOrigin}, webOrigin, http.MethodPut, "/trips/x", true},
		{"confirm participant", []string{webOrigin}, webOrigin, http.MethodPatch, "/participants/x/confirm", true},
		{"delete trip", []string{webOrigin}, webOrigin, http.MethodDelete, "/trips/x", true},
		{"wildcard origin", []string{"*"}, "http://expo.dev:8081", http.MethodPost, "/trips", true},
		{"foreign origin", []string{webOrigin}, "http://evil.example.com", http.MethodPost, "/trips", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.NewCORSHandler(tt.allowed)(okHandler)

			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", tt.method)
			// rs/cors compares requested headers in lowercase, as browsers send them.
			req.Header.Set("Access-Control-Request-Headers", "content-type")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if !tt.wantOK {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
				return
			}
			assert.Less(t, rec.Code, 300)
			assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), tt.method)
		})
	}
}

// The confirm redirect and the rate limiter answer with headers a browser
// client needs to read.
func TestCORSHandler_ExposesLocationAndRetryAfter(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/x/confirm", nil)
	req.Header.Set("Origin", webOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Location")
	assert.Contains(t, exposed, "Retry-After")
}

func TestCORSHandler_SameOriginRequestUntouched(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
