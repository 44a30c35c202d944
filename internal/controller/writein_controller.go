package controller

import (
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WriteinController struct {
	WriteinService    *service.WriteinService
	CompletionService *service.CompletionService
}

func NewWriteinController(writeinService *service.WriteinService, completionService *service.CompletionService) *WriteinController {
	return &WriteinController{
		WriteinService:    writeinService,
		CompletionService: completionService,
	}
}

type WriteinGenerationRequest struct {
	GenerationID uint  `json:"generation_id"`
	Used         *bool `json:"used"`
}

// swagger:model WriteinRequest
type WriteinRequest struct {
	QuestionID  uint                        `json:"question_id"`
	WriteinText string                      `json:"writein_text"`
	Generations *[]WriteinGenerationRequest `json:"generations"`
	TimeSpent   *float64                    `json:"time_spent"`
	UserID      uint                        `json:"user_id"`
}

// SubmitWritein godoc
// @Summary 提交补写答案
// @Description generations 必须是列表，可以为空
// @Tags 补写
// @Accept json
// @Produce json
// @Param body body WriteinRequest true "补写"
// @Success 201 {object} map[string]uint
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/writeins [post]
func (c *WriteinController) SubmitWritein(ctx *gin.Context) {
	var req WriteinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var gens []service.WriteinGenerationInput
	if req.Generations != nil {
		gens = make([]service.WriteinGenerationInput, 0, len(*req.Generations))
		for _, g := range *req.Generations {
			gens = append(gens, service.WriteinGenerationInput{GenerationID: g.GenerationID, Used: g.Used})
		}
	}

	w, err := c.WriteinService.SubmitWritein(ctx.Request.Context(), service.SubmitWriteinInput{
		QuestionID:  req.QuestionID,
		UserID:      bodyUserID(ctx, req.UserID),
		Text:        req.WriteinText,
		Generations: gens,
		TimeSpent:   req.TimeSpent,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"writein_id": w.ID})
}

// LatestWritein godoc
// @Summary 获取用户在问题上最新的补写
// @Tags 补写
// @Produce json
// @Param question_id query int true "问题ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} service.WriteinDetail
// @Failure 404 {object} util.ErrorResponse
// @Router /api/writeins/latest [get]
func (c *WriteinController) LatestWritein(ctx *gin.Context) {
	questionID, err := util.ParseID("question_id", ctx.Query("question_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	userID, err := util.ResolveUserIDQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	w, err := c.WriteinService.Latest(ctx.Request.Context(), questionID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, service.NewWriteinDetail(*w))
}

// HasWritein godoc
// @Summary 用户是否已提交补写以及是否可以补写
// @Tags 补写
// @Produce json
// @Param question_id query int true "问题ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} map[string]bool
// @Router /api/has-writein [get]
func (c *WriteinController) HasWritein(ctx *gin.Context) {
	questionID, err := util.ParseID("question_id", ctx.Query("question_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	userID, err := util.ResolveUserIDQuery(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	completion, err := c.CompletionService.Evaluate(ctx.Request.Context(), questionID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	hasWritein, err := c.WriteinService.HasWritein(ctx.Request.Context(), questionID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"has_writein":      hasWritein,
		"writein_eligible": completion.WriteinEligible,
	})
}
