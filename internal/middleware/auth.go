package middleware

import (
	"context"
	"errors"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver 由 service.AuthService 实现
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// SessionMiddleware 可选认证：会话有效时把用户写入上下文，否则以匿名身份继续
func SessionMiddleware(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, util.ErrUnauthorized) {
				logger.Log.Warn("Session lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(util.ContextUserKey, user)
		c.Next()
	}
}

// RequireSession 强制认证，没有有效会话时返回 401
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserFromContext(c) == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
