package util

import (
	"legal_eval_backend/internal/model"

	"github.com/gin-gonic/gin"
)

// GetUserFromContext 返回会话中间件写入的当前用户，未登录时为 nil
func GetUserFromContext(c *gin.Context) *model.User {
	user, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	u, ok := user.(*model.User)
	if !ok {
		return nil
	}
	return u
}

// ResolveUserID 显式传入的 user_id 优先，其次是会话用户
func ResolveUserID(c *gin.Context, explicit uint) (uint, error) {
	if explicit != 0 {
		return explicit, nil
	}
	if u := GetUserFromContext(c); u != nil {
		return u.ID, nil
	}
	return 0, ErrUnauthorized
}

// ResolveUserIDQuery 从查询参数 user_id 或会话中解析用户
func ResolveUserIDQuery(c *gin.Context) (uint, error) {
	raw := c.Query("user_id")
	if raw == "" {
		return ResolveUserID(c, 0)
	}
	id, err := ParseID("user_id", raw)
	if err != nil {
		return 0, err
	}
	return id, nil
}
