package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signup-funnel-backend/config"
	v1 "signup-funnel-backend/internal/delivery/http/v1"
	"signup-funnel-backend/internal/repository/cache"
	"signup-funnel-backend/internal/repository/memory"
	"signup-funnel-backend/internal/usecase"
	"signup-funnel-backend/pkg/email"
	"signup-funnel-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "router-test-secret"

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

func newTestRouter(t *testing.T, signupLimit int, healthChecks map[string]usecase.HealthCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		FrontendURL:              "http://localhost:3000",
		RateLimitWindowSeconds:   60,
		RateLimitSignupThreshold: signupLimit,
		RateLimitGlobalThreshold: 0,
		AdminJWTSecret:           adminSecret,
		TopUpBonusPercentage:     59,
	}

	signupUC := usecase.NewSignupUsecase(
		memory.NewSignupRepository(memory.DefaultCapacity),
		cache.NoopGuard{},
		email.NewEmailService(cfg),
		validation.New(),
	)

	return v1.NewRouter(v1.RouterDeps{
		SignupUC: signupUC,
		TopUpUC:  usecase.NewTopUpUsecase(cfg.TopUpBonusPercentage),
		HealthUC: usecase.NewHealthUsecase(healthChecks),
		Config:   cfg,
	})
}

func do(r *gin.Engine, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func adminHeader(t *testing.T) http.Header {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops@winmore.uk",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestSignupEndpoint(t *testing.T) {
	r := newTestRouter(t, 1000, nil)

	t.Run("Should accept a valid signup", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/signup", map[string]string{
			"fullName": "Jo Smith",
			"email":    "jo@smith.com",
			"phone":    "+447700900000",
		}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		assert.Equal(t, "Account created successfully", env.Message)
		assert.NotEmpty(t, env.RequestID)

		var result struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.NotEmpty(t, result.ID)
	})

	t.Run("Should reject missing fields", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/signup", map[string]string{
			"fullName": "Jo Smith",
			"email":    "jo@smith.com",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing required fields", decodeEnvelope(t, w).Message)
	})

	t.Run("Should reject a national phone number", func(t *testing.T) {
		w := do(r, http.MethodPost, "/v1/signup", map[string]string{
			"fullName": "Jo Smith",
			"email":    "jo@smith.com",
			"phone":    "07700900000",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var fields map[string]string
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Error, &fields))
		assert.Equal(t, "Please enter a valid UK phone number", fields["phone"])
	})

	t.Run("Should list the stored signup for operators", func(t *testing.T) {
		w := do(r, http.MethodGet, "/v1/admin/signups", nil, adminHeader(t))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Data), "jo@smith.com")
	})
}

func TestSignupEndpoint_RateLimited(t *testing.T) {
	r := newTestRouter(t, 1, nil)
	body := map[string]string{"fullName": "Jo Smith", "email": "rl@smith.com", "phone": "+447700900000"}
	header := http.Header{"X-Forwarded-For": []string{"198.51.100.23"}}

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/v1/signup", body, header).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/v1/signup", body, header).Code)
}

func TestTopUpEndpoints(t *testing.T) {
	r := newTestRouter(t, 1000, nil)

	w := do(r, http.MethodGet, "/v1/topup/options", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"default_amount":5`)

	w = do(r, http.MethodPost, "/v1/topup/quote", map[string]int{"amount": 7}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/v1/topup", map[string]int{"amount": 10}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully topped up £15.90!", decodeEnvelope(t, w).Message)
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestRouter(t, 1000, nil)

	t.Run("Should require a token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/v1/admin/signups/export", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should download a workbook", func(t *testing.T) {
		w := do(r, http.MethodGet, "/v1/admin/signups/export", nil, adminHeader(t))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.NotZero(t, w.Body.Len())
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("Should report healthy", func(t *testing.T) {
		r := newTestRouter(t, 1000, map[string]usecase.HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		w := do(r, http.MethodGet, "/v1/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should report a failing dependency", func(t *testing.T) {
		r := newTestRouter(t, 1000, map[string]usecase.HealthCheck{
			"redis": func(context.Context) error { return errors.New("down") },
		})
		w := do(r, http.MethodGet, "/v1/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Error), "unavailable")
	})
}
