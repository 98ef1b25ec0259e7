package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"signup-funnel-backend/internal/delivery/http/response"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/auth"
	"signup-funnel-backend/pkg/logger"
	"signup-funnel-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the role claim operator tokens must carry
const AdminRole = "admin"

var (
	errNoSecret = errors.New("ADMIN_JWT_SECRET is not configured")
	errNoJWKS   = errors.New("ADMIN_JWKS_URL is not configured")
)

// AdminAuthMiddleware accepts bearer tokens whose role claim is "admin":
// HS256 signed with secret, or RS256 verified against jwks when it is set.
// With neither configured every request is refused. tracker may be nil;
// otherwise IPs that keep failing are locked out.
func AdminAuthMiddleware(secret string, jwks *auth.Provider, tracker *security.AccessTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker != nil {
			blocked, err := tracker.IsBlocked(c.Request.Context(), c.ClientIP())
			if err != nil {
				logger.Log.Warn("Access tracker unavailable", "error", err)
			}
			if blocked {
				response.Error(c, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.", nil)
				c.Abort()
				return
			}
		}

		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			rejectAdmin(c, tracker, http.StatusUnauthorized, "Authorization header required", "missing_token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodHMAC:
				if secret == "" {
					return nil, errNoSecret
				}
				return []byte(secret), nil
			case *jwt.SigningMethodRSA:
				if jwks == nil {
					return nil, errNoJWKS
				}
				return jwks.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodRS256.Alg()}))
		if err != nil || !token.Valid {
			rejectAdmin(c, tracker, http.StatusUnauthorized, "Invalid token", "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			rejectAdmin(c, tracker, http.StatusUnauthorized, "Invalid claims", "invalid_claims")
			return
		}

		role, _ := claims["role"].(string)
		if role != AdminRole {
			rejectAdmin(c, tracker, http.StatusForbidden, "Admin access required", "insufficient_role")
			return
		}

		sub, _ := claims.GetSubject()
		c.Set(string(domain.KeyAdminSubject), sub)
		c.Set(string(domain.KeyAdminRole), role)
		if tracker != nil {
			tracker.Clear(c.Request.Context(), c.ClientIP())
		}

		c.Next()
	}
}

func rejectAdmin(c *gin.Context, tracker *security.AccessTracker, status int, message, reason string) {
	security.DefaultLogger().LogUnauthorizedAccess(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		response.RequestID(c),
		c.FullPath(),
		reason,
	)
	if tracker != nil {
		if _, _, err := tracker.RecordFailure(c.Request.Context(), c.ClientIP(), response.RequestID(c)); err != nil {
			logger.Log.Warn("Failed to record admin auth failure", "error", err)
		}
	}
	response.Error(c, status, message, nil)
	c.Abort()
}
