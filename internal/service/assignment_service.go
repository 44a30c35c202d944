package service

import (
	"context"
	"fmt"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"sort"

	"go.uber.org/zap"
)

type AssignmentService struct {
	Repo         *repository.AssignmentRepository
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
}

func NewAssignmentService(repo *repository.AssignmentRepository, userRepo *repository.UserRepository, questionRepo *repository.QuestionRepository) *AssignmentService {
	return &AssignmentService{
		Repo:         repo,
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
	}
}

// RequireAssigned 用户未被分配到该问题时返回 ErrNotAssigned
func (s *AssignmentService) RequireAssigned(ctx context.Context, userID, questionID uint) error {
	ok, err := s.Repo.IsAssigned(ctx, userID, questionID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotAssigned
	}
	return nil
}

func (s *AssignmentService) ListQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.Repo.ListQuestionIDs(ctx, userID)
}

func (s *AssignmentService) Assign(ctx context.Context, userID uint, questionIDs []uint) (int64, error) {
	ids, err := s.validate(ctx, userID, questionIDs)
	if err != nil {
		return 0, err
	}
	n, err := s.Repo.Assign(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("Questions assigned",
		zap.Uint("user_id", userID),
		zap.Int("requested", len(ids)),
		zap.Int64("assigned", n),
	)
	return n, nil
}

func (s *AssignmentService) Unassign(ctx context.Context, userID uint, questionIDs []uint) (int64, error) {
	ids, err := s.validate(ctx, userID, questionIDs)
	if err != nil {
		return 0, err
	}
	n, err := s.Repo.Unassign(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("Questions unassigned", zap.Uint("user_id", userID), zap.Int64("removed", n))
	return n, nil
}

// validate 去重并校验用户和问题都存在
func (s *AssignmentService) validate(ctx context.Context, userID uint, questionIDs []uint) ([]uint, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", util.ErrInvalidInput)
	}
	if len(questionIDs) == 0 {
		return nil, fmt.Errorf("%w: question_ids must not be empty", util.ErrInvalidInput)
	}

	seen := make(map[uint]bool, len(questionIDs))
	ids := make([]uint, 0, len(questionIDs))
	for _, id := range questionIDs {
		if id == 0 {
			return nil, fmt.Errorf("%w: invalid question id", util.ErrInvalidInput)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, util.ErrUserNotFound)
	}
	count, err := s.QuestionRepo.CountExisting(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, util.ErrQuestionNotFound
	}
	return ids, nil
}
