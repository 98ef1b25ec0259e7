package v1

import (
	"signup-funnel-backend/config"
	"signup-funnel-backend/internal/delivery/http/middleware"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/internal/usecase"
	"signup-funnel-backend/pkg/auth"
	"signup-funnel-backend/pkg/redis"
	"signup-funnel-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	SignupUC domain.SignupUsecase
	TopUpUC  domain.TopUpUsecase
	HealthUC usecase.HealthUsecase
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow())))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Public routes
	NewHealthHandler(v1, deps.HealthUC)
	NewSignupHandler(v1, deps.SignupUC,
		middleware.RateLimitMiddleware(middleware.SignupRateLimitConfig(cfg.RateLimitSignupThreshold, cfg.RateLimitWindow())))
	NewTopUpHandler(v1, deps.TopUpUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Operator routes
	var jwks *auth.Provider
	if cfg.AdminJWKSURL != "" {
		jwks = auth.NewProvider(cfg.AdminJWKSURL, nil)
	}
	protected := v1.Group("")
	protected.Use(middleware.AdminAuthMiddleware(cfg.AdminJWTSecret, jwks,
		security.NewAccessTracker(redis.Client(), security.DefaultAccessTrackerConfig())))
	{
		NewAdminHandler(protected, deps.SignupUC)
	}

	return r
}
