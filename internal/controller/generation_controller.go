package controller

import (
	"errors"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GenerationController struct {
	GenerationService *service.GenerationService
}

func NewGenerationController(generationService *service.GenerationService) *GenerationController {
	return &GenerationController{GenerationService: generationService}
}

type GenerationResponse struct {
	GenerationID uint   `json:"generation_id"`
	QuestionID   uint   `json:"question_id"`
	ModelID      uint   `json:"model_id"`
	ModelName    string `json:"model_name"`
	Text         string `json:"generation_text"`
}

type PairResponse struct {
	Gen1ID    uint   `json:"gen_1_id"`
	Gen1Text  string `json:"gen_1_text"`
	Gen1Model string `json:"gen_1_model"`
	Gen2ID    uint   `json:"gen_2_id"`
	Gen2Text  string `json:"gen_2_text"`
	Gen2Model string `json:"gen_2_model"`
}

// ListGenerations godoc
// @Summary 获取问题的所有回答
// @Description 解析到用户时要求该用户已被分配到此问题
// @Tags 回答
// @Produce json
// @Param question_id query int true "问题ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} map[string][]GenerationResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/generations [get]
func (c *GenerationController) ListGenerations(ctx *gin.Context) {
	questionID, err := util.ParseID("question_id", ctx.Query("question_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	// 没有任何用户时（导入脚本）不做分配检查
	userID, err := util.ResolveUserIDQuery(ctx)
	if err != nil && !errors.Is(err, util.ErrUnauthorized) {
		util.HandleError(ctx, err)
		return
	}

	gens, err := c.GenerationService.ListForQuestion(ctx.Request.Context(), questionID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	out := make([]GenerationResponse, 0, len(gens))
	for i := range gens {
		g := &gens[i]
		out = append(out, GenerationResponse{
			GenerationID: g.ID,
			QuestionID:   g.QuestionID,
			ModelID:      g.ModelID,
			ModelName:    g.ModelName(),
			Text:         g.Text,
		})
	}
	util.Success(ctx, gin.H{"generations": out})
}

type CreateGenerationRequest struct {
	QuestionID uint   `json:"question_id"`
	Text       string `json:"generation_text"`
	ModelName  string `json:"model_name"`
}

// CreateGeneration godoc
// @Summary 写入模型回答
// @Description 模型不存在时按名称创建
// @Tags 回答
// @Accept json
// @Produce json
// @Param body body CreateGenerationRequest true "回答"
// @Success 201 {object} service.CreateGenerationResult
// @Failure 404 {object} util.ErrorResponse
// @Router /api/generations [post]
func (c *GenerationController) CreateGeneration(ctx *gin.Context) {
	var req CreateGenerationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GenerationService.CreateGeneration(ctx.Request.Context(), req.QuestionID, req.Text, req.ModelName)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// ListPairs godoc
// @Summary 获取问题的所有回答对
// @Tags 回答
// @Produce json
// @Param question_id query int true "问题ID"
// @Success 200 {object} map[string][]PairResponse
// @Router /api/pairs [get]
func (c *GenerationController) ListPairs(ctx *gin.Context) {
	questionID, err := util.ParseID("question_id", ctx.Query("question_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	pairs, err := c.GenerationService.Pairs(ctx.Request.Context(), questionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	out := make([]PairResponse, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, PairResponse{
			Gen1ID:    p.Gen1.ID,
			Gen1Text:  p.Gen1.Text,
			Gen1Model: p.Gen1.ModelName(),
			Gen2ID:    p.Gen2.ID,
			Gen2Text:  p.Gen2.Text,
			Gen2Model: p.Gen2.ModelName(),
		})
	}
	util.Success(ctx, gin.H{"pairs": out})
}

// ListModels godoc
// @Summary 获取所有模型
// @Tags 模型
// @Produce json
// @Success 200 {array} model.LLMModel
// @Router /api/models [get]
func (c *GenerationController) ListModels(ctx *gin.Context) {
	models, err := c.GenerationService.ListModels(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if models == nil {
		models = []model.LLMModel{}
	}
	util.Success(ctx, models)
}

type CreateModelRequest struct {
	ModelName string `json:"model_name"`
}

// CreateModel 按名称查找或创建模型
func (c *GenerationController) CreateModel(ctx *gin.Context) {
	var req CreateModelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.GenerationService.CreateModel(ctx.Request.Context(), req.ModelName)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, m)
}
