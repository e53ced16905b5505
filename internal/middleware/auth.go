package middleware

import (
	"net/http"
	"strings"

	"tmf-api/internal/auth"
	"tmf-api/internal/model"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// AuthMiddleware はJWT認証ミドルウェア。authService が nil の場合は素通し
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		// Bearer トークンの形式をチェック
		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		caller, err := authService.ValidateToken(tokenParts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// GetCallerFromContext はコンテキストから呼び出し元を取得
func GetCallerFromContext(c *gin.Context) (*model.Caller, bool) {
	caller, exists := c.Get(callerKey)
	if !exists {
		return nil, false
	}

	callerModel, ok := caller.(*model.Caller)
	return callerModel, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Unauthorized",
		"message": message,
	})
}
