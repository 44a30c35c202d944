package service

import (
	"context"
	"fmt"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"legal_eval_backend/pkg/monitoring"
	"math"

	"go.uber.org/zap"
)

// RatingService 评分按追加方式保存，读取时以最新一条为准
type RatingService struct {
	Repo           *repository.RatingRepository
	GenerationRepo *repository.GenerationRepository
	QuestionSvc    *QuestionService
	AssignmentSvc  *AssignmentService
}

func NewRatingService(repo *repository.RatingRepository, generationRepo *repository.GenerationRepository, questionSvc *QuestionService, assignmentSvc *AssignmentService) *RatingService {
	return &RatingService{
		Repo:           repo,
		GenerationRepo: generationRepo,
		QuestionSvc:    questionSvc,
		AssignmentSvc:  assignmentSvc,
	}
}

// SubmitRatingInput 零值 id 与空 selection 视为缺失
type SubmitRatingInput struct {
	QuestionID uint
	Gen1ID     uint
	Gen2ID     uint
	UserID     uint
	Selection  model.Selection
	TimeSpent  *float64
}

func (in SubmitRatingInput) validate() error {
	switch {
	case in.QuestionID == 0:
		return fmt.Errorf("%w: question_id is required", util.ErrInvalidInput)
	case in.Gen1ID == 0 || in.Gen2ID == 0:
		return fmt.Errorf("%w: gen_1_id and gen_2_id are required", util.ErrInvalidInput)
	case in.UserID == 0:
		return fmt.Errorf("%w: user_id is required", util.ErrInvalidInput)
	case in.Selection == "":
		return fmt.Errorf("%w: selection is required", util.ErrInvalidInput)
	case !in.Selection.Valid():
		return fmt.Errorf("%w: invalid selection %q", util.ErrInvalidInput, in.Selection)
	case in.TimeSpent == nil:
		return fmt.Errorf("%w: time_spent is required", util.ErrInvalidInput)
	case !validTimeSpent(*in.TimeSpent):
		return fmt.Errorf("%w: time_spent must be a non-negative number of seconds", util.ErrInvalidInput)
	case in.Gen1ID == in.Gen2ID:
		return fmt.Errorf("%w: gen_1_id and gen_2_id must differ", util.ErrInvalidInput)
	}
	return nil
}

// SubmitRating 校验后追加一条评分；gen_1_id > gen_2_id 时交换 id 并镜像 selection
func (s *RatingService) SubmitRating(ctx context.Context, in SubmitRatingInput) (*model.Rating, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if err := s.QuestionSvc.RequireExists(ctx, in.QuestionID); err != nil {
		return nil, err
	}
	if err := s.AssignmentSvc.RequireAssigned(ctx, in.UserID, in.QuestionID); err != nil {
		return nil, err
	}

	count, err := s.GenerationRepo.CountInQuestion(ctx, in.QuestionID, []uint{in.Gen1ID, in.Gen2ID})
	if err != nil {
		return nil, err
	}
	if count != 2 {
		return nil, fmt.Errorf("%w: generations do not belong to question %d", util.ErrInvalidInput, in.QuestionID)
	}

	gen1, gen2, selection := in.Gen1ID, in.Gen2ID, in.Selection
	if gen1 > gen2 {
		gen1, gen2, selection = gen2, gen1, selection.Mirror()
	}

	rating := &model.Rating{
		QuestionID:       in.QuestionID,
		UserID:           in.UserID,
		GenID1:           gen1,
		GenID2:           gen2,
		UserSelection:    selection,
		TimeSpentSeconds: roundSeconds(*in.TimeSpent),
	}
	if err := s.Repo.Create(ctx, rating); err != nil {
		return nil, err
	}

	monitoring.RatingsSubmitted.WithLabelValues(string(selection)).Inc()
	logger.Log.Info("Rating submitted",
		zap.Uint("rating_id", rating.ID),
		zap.Uint("question_id", rating.QuestionID),
		zap.Uint("user_id", rating.UserID),
		zap.Uint("gen_1_id", gen1),
		zap.Uint("gen_2_id", gen2),
		zap.String("selection", string(selection)),
	)
	return rating, nil
}

// LatestRatings 每个已评分回答对的最新评分，按回答对排序
func (s *RatingService) LatestRatings(ctx context.Context, questionID, userID uint) ([]model.Rating, error) {
	latest, err := s.latest(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	return SortedRatings(latest), nil
}

func (s *RatingService) latest(ctx context.Context, questionID, userID uint) (map[model.PairKey]model.Rating, error) {
	history, err := s.Repo.ListByQuestionUser(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	return LatestRatings(history), nil
}

// validTimeSpent 耗时须为不超过 MaxInt32 的非负有限数
func validTimeSpent(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= math.MaxInt32
}

func roundSeconds(v float64) int {
	return int(math.Round(v))
}
