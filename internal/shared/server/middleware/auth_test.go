package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth("dev"))
	r.GET("/api/v1/screenings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c), "isGuest": c.GetBool("isGuest")})
	})
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthRejectsMissingIdentity(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/screenings", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthAcceptsGuestHeader(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/screenings", nil)
	req.Header.Set("X-Guest-Id", "abc")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if want := `"userId":"guest:abc"`; !strings.Contains(body, want) {
		t.Errorf("body = %s, want %s", body, want)
	}
	if want := `"isGuest":true`; !strings.Contains(body, want) {
		t.Errorf("body = %s, want %s", body, want)
	}
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	token, err := auth.SignJWT(auth.Claims{Sub: "google:7", Email: "a@example.com", Name: "A"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/screenings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if want := `"userId":"google:7"`; !strings.Contains(resp.Body.String(), want) {
		t.Errorf("body = %s, want %s", resp.Body.String(), want)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	r := newAuthRouter()

	for _, header := range []string{"Basic abc", "Bearer ", "Bearer garbage.token.here"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/screenings", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestAuthSkipsOpenPaths(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without identity on health, got %d", resp.Code)
	}
}

func TestAuthAnswersPreflight(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/screenings", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for OPTIONS, got %d", resp.Code)
	}
}
