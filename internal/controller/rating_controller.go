package controller

import (
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	RatingService *service.RatingService
}

func NewRatingController(ratingService *service.RatingService) *RatingController {
	return &RatingController{RatingService: ratingService}
}

// swagger:model RateRequest
type RateRequest struct {
	QuestionID uint     `json:"question_id"`
	Gen1ID     uint     `json:"gen_1_id"`
	Gen2ID     uint     `json:"gen_2_id"`
	Selection  string   `json:"selection"`
	TimeSpent  *float64 `json:"time_spent"`
	UserID     uint     `json:"user_id"`
}

// Rate godoc
// @Summary 提交回答对评分
// @Description 评分只追加不覆盖，同一回答对以最新一条为准
// @Tags 评分
// @Accept json
// @Produce json
// @Param body body RateRequest true "评分"
// @Success 200 {object} util.MessageResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse "用户未被分配到该问题"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/rate [post]
func (c *RatingController) Rate(ctx *gin.Context) {
	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	_, err := c.RatingService.SubmitRating(ctx.Request.Context(), service.SubmitRatingInput{
		QuestionID: req.QuestionID,
		Gen1ID:     req.Gen1ID,
		Gen2ID:     req.Gen2ID,
		UserID:     bodyUserID(ctx, req.UserID),
		Selection:  model.Selection(req.Selection),
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Message(ctx, "Rating submitted")
}

// ListRatings godoc
// @Summary 获取用户在问题上每个回答对的最新评分
// @Tags 评分
// @Produce json
// @Param question_id query int true "问题ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} map[string][]model.Rating
// @Router /api/ratings [get]
func (c *RatingController) ListRatings(ctx *gin.Context) {
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

	ratings, err := c.RatingService.LatestRatings(ctx.Request.Context(), questionID, userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"ratings": ratings})
}
