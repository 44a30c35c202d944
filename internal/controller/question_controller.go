package controller

import (
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService   *service.QuestionService
	CompletionService *service.CompletionService
}

func NewQuestionController(questionService *service.QuestionService, completionService *service.CompletionService) *QuestionController {
	return &QuestionController{
		QuestionService:   questionService,
		CompletionService: completionService,
	}
}

// ListQuestions godoc
// @Summary 分页获取问题列表
// @Tags 问题
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(10)
// @Param search query string false "按问题文本搜索"
// @Param user_id query int false "只返回分配给该用户的问题"
// @Success 200 {object} service.QuestionPage
// @Router /api/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page := util.ParseIntDefault(ctx.Query("page"), util.DefaultPage)
	limit := util.ParseIntDefault(ctx.Query("limit"), util.DefaultPageSize)

	var userID uint
	if raw := ctx.Query("user_id"); raw != "" {
		id, err := util.ParseID("user_id", raw)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		userID = id
	}

	result, err := c.QuestionService.List(ctx.Request.Context(), page, limit, ctx.Query("search"), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetQuestion godoc
// @Summary 获取单个问题
// @Tags 问题
// @Produce json
// @Param question_id query int true "问题ID"
// @Success 200 {object} model.Question
// @Failure 404 {object} util.ErrorResponse
// @Router /api/question [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	questionID, err := util.ParseID("question_id", ctx.Query("question_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	q, err := c.QuestionService.Get(ctx.Request.Context(), questionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

type CreateQuestionRequest struct {
	QuestionText string `json:"question_text"`
}

// CreateQuestion godoc
// @Summary 新增问题
// @Tags 问题
// @Accept json
// @Produce json
// @Param body body CreateQuestionRequest true "问题文本"
// @Success 201 {object} model.Question
// @Router /api/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Create(ctx.Request.Context(), req.QuestionText)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// IsAnswered godoc
// @Summary 用户是否已完成该问题
// @Tags 问题
// @Produce json
// @Param question_id query int true "问题ID"
// @Param user_id query int false "用户ID，缺省时使用当前会话"
// @Success 200 {object} service.Completion
// @Router /api/questions/is-answered [get]
func (c *QuestionController) IsAnswered(ctx *gin.Context) {
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

	util.Success(ctx, completion)
}
