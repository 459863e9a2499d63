package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"consultly/config"
)

func newLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func ping(router *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Real-IP", ip)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitUsesConfiguredRequestsPerMinute(t *testing.T) {
	prev := config.AppConfig.MaxRequestsPerMin
	config.AppConfig.MaxRequestsPerMin = 3
	defer func() { config.AppConfig.MaxRequestsPerMin = prev }()

	router := newLimitedRouter()

	for i := 0; i < 3; i++ {
		if code := ping(router, "203.0.113.7"); code != http.StatusOK {
			t.Fatalf("request %d got %d, want 200", i+1, code)
		}
	}
	if code := ping(router, "203.0.113.7"); code != http.StatusTooManyRequests {
		t.Errorf("request over the limit got %d, want 429", code)
	}
}

func TestRateLimitIsPerClientIP(t *testing.T) {
	prev := config.AppConfig.MaxRequestsPerMin
	config.AppConfig.MaxRequestsPerMin = 1
	defer func() { config.AppConfig.MaxRequestsPerMin = prev }()

	router := newLimitedRouter()

	if code := ping(router, "198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first request got %d, want 200", code)
	}
	if code := ping(router, "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Errorf("second request from same IP got %d, want 429", code)
	}
	if code := ping(router, "198.51.100.2"); code != http.StatusOK {
		t.Errorf("request from a fresh IP got %d, want 200", code)
	}
}
