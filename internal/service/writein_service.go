package service

import (
	"context"
	"fmt"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"legal_eval_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
)

type WriteinService struct {
	Repo           *repository.WriteinRepository
	GenerationRepo *repository.GenerationRepository
	QuestionSvc    *QuestionService
	AssignmentSvc  *AssignmentService
}

func NewWriteinService(repo *repository.WriteinRepository, generationRepo *repository.GenerationRepository, questionSvc *QuestionService, assignmentSvc *AssignmentService) *WriteinService {
	return &WriteinService{
		Repo:           repo,
		GenerationRepo: generationRepo,
		QuestionSvc:    questionSvc,
		AssignmentSvc:  assignmentSvc,
	}
}

// WriteinGenerationInput Used 为 nil 表示请求中缺少该字段
type WriteinGenerationInput struct {
	GenerationID uint
	Used         *bool
}

// SubmitWriteinInput Generations 为 nil 表示请求中缺少 generations，空切片合法
type SubmitWriteinInput struct {
	QuestionID  uint
	UserID      uint
	Text        string
	Generations []WriteinGenerationInput
	TimeSpent   *float64
}

func (in SubmitWriteinInput) validate() ([]model.WriteinGeneration, error) {
	switch {
	case in.QuestionID == 0:
		return nil, fmt.Errorf("%w: question_id is required", util.ErrInvalidInput)
	case in.UserID == 0:
		return nil, fmt.Errorf("%w: user_id is required", util.ErrInvalidInput)
	case strings.TrimSpace(in.Text) == "":
		return nil, fmt.Errorf("%w: writein_text must not be empty", util.ErrInvalidInput)
	case in.Generations == nil:
		return nil, fmt.Errorf("%w: generations must be a list", util.ErrInvalidInput)
	case in.TimeSpent != nil && !validTimeSpent(*in.TimeSpent):
		return nil, fmt.Errorf("%w: time_spent must be a non-negative number of seconds", util.ErrInvalidInput)
	}

	seen := make(map[uint]bool, len(in.Generations))
	rows := make([]model.WriteinGeneration, 0, len(in.Generations))
	for i, g := range in.Generations {
		if g.GenerationID == 0 || g.Used == nil {
			return nil, fmt.Errorf("%w: generations[%d] needs generation_id and used", util.ErrInvalidInput, i)
		}
		if seen[g.GenerationID] {
			return nil, fmt.Errorf("%w: generation %d listed twice", util.ErrInvalidInput, g.GenerationID)
		}
		seen[g.GenerationID] = true
		rows = append(rows, model.WriteinGeneration{GenerationID: g.GenerationID, Used: *g.Used})
	}
	return rows, nil
}

// SubmitWritein 补写答案与关联回答在同一事务中写入
func (s *WriteinService) SubmitWritein(ctx context.Context, in SubmitWriteinInput) (*model.Writein, error) {
	rows, err := in.validate()
	if err != nil {
		return nil, err
	}

	if err := s.QuestionSvc.RequireExists(ctx, in.QuestionID); err != nil {
		return nil, err
	}
	if err := s.AssignmentSvc.RequireAssigned(ctx, in.UserID, in.QuestionID); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		ids := make([]uint, len(rows))
		for i, r := range rows {
			ids[i] = r.GenerationID
		}
		count, err := s.GenerationRepo.CountInQuestion(ctx, in.QuestionID, ids)
		if err != nil {
			return nil, err
		}
		if count != int64(len(ids)) {
			return nil, fmt.Errorf("%w: generations do not belong to question %d", util.ErrInvalidInput, in.QuestionID)
		}
	}

	w := &model.Writein{
		QuestionID: in.QuestionID,
		UserID:     in.UserID,
		Text:       in.Text,
	}
	if in.TimeSpent != nil {
		w.TimeSpentSeconds = roundSeconds(*in.TimeSpent)
	}
	if err := s.Repo.CreateWithGenerations(ctx, w, rows); err != nil {
		return nil, err
	}

	monitoring.WriteinsSubmitted.Inc()
	logger.Log.Info("Write-in submitted",
		zap.Uint("writein_id", w.ID),
		zap.Uint("question_id", w.QuestionID),
		zap.Uint("user_id", w.UserID),
		zap.Int("generations", len(rows)),
	)
	return w, nil
}

func (s *WriteinService) HasWritein(ctx context.Context, questionID, userID uint) (bool, error) {
	return s.Repo.Exists(ctx, questionID, userID)
}

func (s *WriteinService) Latest(ctx context.Context, questionID, userID uint) (*model.Writein, error) {
	w, err := s.Repo.Latest(ctx, questionID, userID)
	if err != nil {
		return nil, notFoundOr(err, util.ErrWriteinNotFound)
	}
	return w, nil
}
