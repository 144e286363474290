package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"github.com/gin-gonic/gin"
)

const ContextUserKey = "current_user"

// SessionVerifier token 无效时返回 nil
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) *model.User
}

// Auth 校验 Bearer token 并注入当前用户
func Auth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing or malformed authorization header"})
			return
		}
		user := verifier.VerifySession(c.Request.Context(), token)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRoles 必须放在 Auth 之后
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "insufficient role"})
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// BearerToken 解析 "Bearer <token>"
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
