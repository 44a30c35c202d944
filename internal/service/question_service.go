package service

import (
	"context"
	"fmt"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionPage struct {
	Questions   []model.Question `json:"questions"`
	Total       int64            `json:"total"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// List 分页查询问题，page 和 limit 超出范围时回落到默认值
func (s *QuestionService) List(ctx context.Context, page, limit int, search string, userID uint) (*QuestionPage, error) {
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 {
		limit = util.DefaultPageSize
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}

	questions, total, err := s.Repo.List(ctx, repository.QuestionFilter{
		Search: search,
		UserID: userID,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Questions:   questions,
		Total:       total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: page,
	}, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, util.ErrQuestionNotFound)
	}
	return q, nil
}

// RequireExists 问题不存在时返回 ErrQuestionNotFound
func (s *QuestionService) RequireExists(ctx context.Context, id uint) error {
	ok, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionService) Create(ctx context.Context, text string) (*model.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question_text is required", util.ErrInvalidInput)
	}
	q := &model.Question{Text: text}
	if err := s.Repo.Create(ctx, q); err != nil {
		return nil, err
	}
	logger.Log.Info("Question created", zap.Uint("question_id", q.ID))
	return q, nil
}
