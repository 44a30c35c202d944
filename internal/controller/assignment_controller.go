package controller

import (
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

type AssignmentRequest struct {
	UserID      uint   `json:"user_id"`
	QuestionIDs []uint `json:"question_ids"`
}

// ListAssignments godoc
// @Summary 获取分配给用户的问题
// @Tags 分配
// @Produce json
// @Param user_id query int false "用户ID，缺省时使用当前会话"
// @Success 200 {object} map[string]interface{}
// @Router /api/user-questions [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	userID, err := util.ResolveUserIDQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ids, err := c.AssignmentService.ListQuestionIDs(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if ids == nil {
		ids = []uint{}
	}

	util.Success(ctx, gin.H{"user_id": userID, "question_ids": ids})
}

// Assign godoc
// @Summary 给用户分配问题
// @Description 已存在的分配会被忽略
// @Tags 分配
// @Accept json
// @Produce json
// @Param body body AssignmentRequest true "分配"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/user-questions [post]
func (c *AssignmentController) Assign(ctx *gin.Context) {
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := bodyUserID(ctx, req.UserID)
	n, err := c.AssignmentService.Assign(ctx.Request.Context(), userID, req.QuestionIDs)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"user_id": userID, "assigned": n})
}

// Unassign 取消分配，已有的评分和补写保留
func (c *AssignmentController) Unassign(ctx *gin.Context) {
	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := bodyUserID(ctx, req.UserID)
	n, err := c.AssignmentService.Unassign(ctx.Request.Context(), userID, req.QuestionIDs)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"user_id": userID, "removed": n})
}
