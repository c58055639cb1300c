package middleware

import (
	"net/http"
	"strings"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextMemberEmailKey = "member_email"
	ContextMemberKeyKey   = "member_key"
)

// AuthMiddleware 校验 CMS 签发的 Bearer token，注入 member_email / member_key
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextMemberEmailKey, claims.MemberEmail)
		c.Set(ContextMemberKeyKey, claims.MemberKey)
		c.Next()
	}
}

// OptionalAuthMiddleware 有合法 token 就注入身份，没有也放行（匿名视角）
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c); ok {
			c.Set(ContextMemberEmailKey, claims.MemberEmail)
			c.Set(ContextMemberKeyKey, claims.MemberKey)
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context) (*pkg.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := pkg.ParseAccess(parts[1])
	if err != nil || claims.MemberEmail == "" {
		return nil, false
	}
	return claims, true
}

// MemberEmail 从上下文取当前成员 email；匿名返回空串
func MemberEmail(c *gin.Context) string {
	v, _ := c.Get(ContextMemberEmailKey)
	email, _ := v.(string)
	return email
}
