package controller

import (
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// bodyUserID 请求体中的 user_id 优先，否则取会话用户；都没有时返回 0 交给服务层校验
func bodyUserID(ctx *gin.Context, explicit uint) uint {
	id, err := util.ResolveUserID(ctx, explicit)
	if err != nil {
		return 0
	}
	return id
}
