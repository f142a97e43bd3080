package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	sharedauth "resume-screener/internal/shared/auth"
	"resume-screener/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Config: config.Config{
			Env:             "dev",
			CORSAllowOrigin: []string{"http://localhost:5173"},
		},
	})
}

func TestHealthOpenWithoutIdentity(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body["ok"] {
		t.Errorf("body = %v, want ok=true", body)
	}
}

func TestMetricsOpenWithoutIdentity(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "screening_started_total") {
		t.Error("metrics output missing screening counters")
	}
}

func TestProtectedRouteRequiresIdentity(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGuestHeaderAccepted(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("X-Guest-Id", "g-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "guest:g-123") {
		t.Errorf("body = %s, want guest identity", w.Body.String())
	}
}

func TestBearerTokenAccepted(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})

	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: "google:42", Email: "u@example.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "google:42") {
		t.Errorf("body = %s, want token subject", w.Body.String())
	}
}

func TestMalformedBearerRejected(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	for _, header := range []string{"Bearer", "Bearer  ", "Token abc", "Bearer not.a.jwt"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{"", ":8080"},
		{"9000", ":9000"},
		{":7070", ":7070"},
	}
	for _, tt := range tests {
		if got := Addr(tt.port); got != tt.want {
			t.Errorf("Addr(%q) = %q, want %q", tt.port, got, tt.want)
		}
	}
}
