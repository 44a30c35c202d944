package service

import (
	"context"
	"legal_eval_backend/internal/repository"
)

// CompletionService 每次请求时重新计算完成状态，不做缓存
type CompletionService struct {
	GenerationRepo *repository.GenerationRepository
	RatingSvc      *RatingService
	WriteinSvc     *WriteinService
	QuestionSvc    *QuestionService
}

func NewCompletionService(generationRepo *repository.GenerationRepository, ratingSvc *RatingService, writeinSvc *WriteinService, questionSvc *QuestionService) *CompletionService {
	return &CompletionService{
		GenerationRepo: generationRepo,
		RatingSvc:      ratingSvc,
		WriteinSvc:     writeinSvc,
		QuestionSvc:    questionSvc,
	}
}

func (s *CompletionService) Evaluate(ctx context.Context, questionID, userID uint) (*Completion, error) {
	if err := s.QuestionSvc.RequireExists(ctx, questionID); err != nil {
		return nil, err
	}

	gens, err := s.GenerationRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	pairs := DerivePairs(gens)
	if len(pairs) == 0 {
		return &Completion{}, nil
	}

	latest, err := s.RatingSvc.latest(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	hasWritein, err := s.WriteinSvc.HasWritein(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}

	c := DeriveCompletion(pairs, latest, hasWritein)
	return &c, nil
}

func (s *CompletionService) IsAnswered(ctx context.Context, questionID, userID uint) (bool, error) {
	c, err := s.Evaluate(ctx, questionID, userID)
	if err != nil {
		return false, err
	}
	return c.IsAnswered, nil
}

// WriteinEligible 所有回答对都已评分且均为 both_unusable 时才允许补写
func (s *CompletionService) WriteinEligible(ctx context.Context, questionID, userID uint) (bool, error) {
	c, err := s.Evaluate(ctx, questionID, userID)
	if err != nil {
		return false, err
	}
	return c.WriteinEligible, nil
}
