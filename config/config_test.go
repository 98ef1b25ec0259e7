package config_test

import (
	"testing"
	"time"

	"signup-funnel-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SUCCESS_REDIRECT_URL", "https://winmore.uk/prizes")
	t.Setenv("SIGNUP_DEDUPE_WINDOW_SECONDS", "not-a-number")
	t.Setenv("TOPUP_BONUS_PERCENTAGE", "59")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://winmore.uk/prizes", cfg.SuccessRedirectURL)
	assert.Equal(t, 10*time.Minute, cfg.SignupDedupeWindow)
	assert.Equal(t, int64(59), cfg.TopUpBonusPercentage)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://join.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com/, ,https://b.example.com")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("SECURITY_LOG_TO_DB", "false")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://join.example.com", cfg.FrontendURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow())
	assert.False(t, cfg.SecurityLogToDB)
}
