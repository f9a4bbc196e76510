package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OldStager01/cloud-autoscaler/api/middleware"
	"github.com/OldStager01/cloud-autoscaler/internal/auth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserID(c), "username": middleware.GetUsername(c)})
	})
	return r
}

func TestJWTAuth_RejectsMissingToken(t *testing.T) {
	svc := auth.NewService("secret", time.Hour, "issuer")
	r := newEngine(middleware.JWTAuth(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuth_AcceptsValidBearerToken(t *testing.T) {
	svc := auth.NewService("secret", time.Hour, "issuer")
	token, _ := svc.GenerateToken(42, "trader")
	r := newEngine(middleware.JWTAuth(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestJWTAuth_AcceptsTokenFromCookie(t *testing.T) {
	svc := auth.NewService("secret", time.Hour, "issuer")
	token, _ := svc.GenerateToken(7, "ops")
	r := newEngine(middleware.JWTAuth(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJWTAuth_RejectsExpiredToken(t *testing.T) {
	svc := auth.NewService("secret", -time.Hour, "issuer")
	token, _ := svc.GenerateToken(1, "trader")
	r := newEngine(middleware.JWTAuth(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestCORS_SetsAllowedOriginAndShortCircuitsOptions(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
}

func TestRateLimit_BlocksAfterLimitExhausted(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.Use(middleware.RateLimit(rl))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.1:1111"

	rec1 := httptest.NewRecorder()
	r.ServeHTTP(rec1, req)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec1.Code)
	}

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("expected second request to be rate limited, got %d", rec2.Code)
	}
}

func TestRateLimit_TracksSeparateKeysIndependently(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)

	if !rl.Allow("ip-a") {
		t.Error("expected first request from ip-a to be allowed")
	}
	if !rl.Allow("ip-b") {
		t.Error("expected first request from ip-b to be allowed independently")
	}
	if rl.Allow("ip-a") {
		t.Error("expected second request from ip-a to be blocked")
	}
}

func TestAuthRateLimiter_BlocksAfterFiveAttempts(t *testing.T) {
	r := gin.New()
	r.Use(middleware.AuthRateLimiter())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.9:2222"
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected the 6th login attempt to be rate limited, got %d", last.Code)
	}
}

func TestSecurityHeaders_SetsExpectedHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options: DENY")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options: nosniff")
	}
}

func TestRequestSizeLimit_RejectsOversizedBody(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestSizeLimit(10))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.ContentLength = 1000
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestTraceID_GeneratesWhenAbsentAndEchoesWhenPresent(t *testing.T) {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"trace_id": middleware.GetTraceID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get(middleware.TraceIDHeader) == "" {
		t.Error("expected a generated trace id header")
	}

	req2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	req2.Header.Set(middleware.TraceIDHeader, "known-trace")
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req2)

	if got := rec2.Header().Get(middleware.TraceIDHeader); got != "known-trace" {
		t.Errorf("expected known-trace echoed back, got %q", got)
	}
}

func TestEndpointRateLimiter_OnlyAppliesToConfiguredPaths(t *testing.T) {
	erl := middleware.NewEndpointRateLimiter()
	erl.AddEndpoint("/limited", 1, time.Minute)

	r := gin.New()
	r.Use(erl.Middleware())
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/unlimited", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/unlimited", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected unconfigured path to never be limited, got %d on iteration %d", rec.Code, i)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = "10.0.0.6:1234"
	rec1 := httptest.NewRecorder()
	r.ServeHTTP(rec1, req)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first limited request to pass, got %d", rec1.Code)
	}

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("expected second limited request to be blocked, got %d", rec2.Code)
	}
}
