package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stayloop/rewards/utils"
)

// Context keys set by AuthRequired for handlers downstream.
const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token for logout revocation.
	ContextTokenKey = "token"
)

// bearerToken extracts the token from the Authorization header, or "" when the
// header is absent or malformed.
func bearerToken(ctx *gin.Context) string {
	scheme, token, found := strings.Cut(ctx.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthRequired rejects requests without a valid, unrevoked bearer token and
// places its claims into the gin context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "missing bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}
