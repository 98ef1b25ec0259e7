package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signup-funnel-backend/internal/delivery/http/middleware"
	"signup-funnel-backend/internal/delivery/http/response"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"
	"signup-funnel-backend/pkg/auth"
	"signup-funnel-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(domain.KeyRequestID)))
	})

	t.Run("Should assign an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("Should keep the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.BadRequest("Invalid signup details").WithDetails(map[string]string{"email": "bad"}))
	})
	r.GET("/raw", func(c *gin.Context) {
		c.Error(errors.New("pq: connection refused"))
	})

	t.Run("Should render app errors with details", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Invalid signup details", body.Message)
		assert.Equal(t, map[string]interface{}{"email": "bad"}, body.Error)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("Should hide unexpected errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware("https://join.example.com", []string{"https://partner.example.com"}))
	r.POST("/v1/signup", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/v1/signup", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://join.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://join.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://partner.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := middleware.SignupRateLimitConfig(2, time.Minute)
	cfg.KeyPrefix = "rl:test:" + t.Name() + ":"

	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(cfg))
	r.POST("/v1/signup", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/signup", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(0, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	const secret = "test-secret"

	sign := func(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	newRouter := func(secret string) *gin.Engine {
		r := gin.New()
		r.GET("/admin", middleware.AdminAuthMiddleware(secret, nil, nil), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(string(domain.KeyAdminSubject)))
		})
		return r
	}

	call := func(r *gin.Engine, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	valid := jwt.MapClaims{"sub": "ops@winmore.uk", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}

	t.Run("Should accept an admin token", func(t *testing.T) {
		w := call(newRouter(secret), sign(t, jwt.SigningMethodHS256, []byte(secret), valid))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ops@winmore.uk", w.Body.String())
	})

	t.Run("Should require a token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(newRouter(secret), "").Code)
	})

	t.Run("Should reject a token signed with another key", func(t *testing.T) {
		w := call(newRouter(secret), sign(t, jwt.SigningMethodHS256, []byte("other"), valid))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		expired := jwt.MapClaims{"sub": "ops", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}
		w := call(newRouter(secret), sign(t, jwt.SigningMethodHS256, []byte(secret), expired))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should forbid non-admin roles", func(t *testing.T) {
		viewer := jwt.MapClaims{"sub": "ops", "role": "viewer"}
		w := call(newRouter(secret), sign(t, jwt.SigningMethodHS256, []byte(secret), viewer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should lock out a blocked IP", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		tracker := security.NewAccessTracker(db, security.DefaultAccessTrackerConfig())
		mock.ExpectExists("blocked:admin:ip:192.0.2.1").SetVal(1)

		r := gin.New()
		r.GET("/admin", middleware.AdminAuthMiddleware(secret, nil, tracker), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := call(r, sign(t, jwt.SigningMethodHS256, []byte(secret), valid))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should refuse everything without a secret", func(t *testing.T) {
		w := call(newRouter(""), sign(t, jwt.SigningMethodHS256, []byte(secret), valid))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminAuthMiddleware_JWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(auth.JWKS{Keys: []auth.JSONWebKey{{
			Kid: "ops-1",
			Kty: "RSA",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	r := gin.New()
	r.GET("/admin", middleware.AdminAuthMiddleware("", auth.NewProvider(srv.URL, srv.Client()), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "ops", "role": "admin"})
	token.Header["kid"] = "ops-1"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
