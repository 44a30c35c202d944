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
	"gorm.io/gorm"
)

type GenerationService struct {
	DB            *gorm.DB
	Repo          *repository.GenerationRepository
	ModelRepo     *repository.ModelRepository
	QuestionSvc   *QuestionService
	AssignmentSvc *AssignmentService
}

func NewGenerationService(db *gorm.DB, repo *repository.GenerationRepository, modelRepo *repository.ModelRepository, questionSvc *QuestionService, assignmentSvc *AssignmentService) *GenerationService {
	return &GenerationService{
		DB:            db,
		Repo:          repo,
		ModelRepo:     modelRepo,
		QuestionSvc:   questionSvc,
		AssignmentSvc: assignmentSvc,
	}
}

type CreateGenerationResult struct {
	GenerationID uint `json:"generation_id"`
	ModelID      uint `json:"model_id"`
}

// ListForQuestion 返回问题的所有回答；userID 非 0 时要求该用户已被分配到此问题
func (s *GenerationService) ListForQuestion(ctx context.Context, questionID, userID uint) ([]model.Generation, error) {
	if err := s.QuestionSvc.RequireExists(ctx, questionID); err != nil {
		return nil, err
	}
	if userID != 0 {
		if err := s.AssignmentSvc.RequireAssigned(ctx, userID, questionID); err != nil {
			return nil, err
		}
	}
	return s.Repo.ListByQuestion(ctx, questionID)
}

// Pairs 当前回答集合推导出的所有回答对
func (s *GenerationService) Pairs(ctx context.Context, questionID uint) ([]Pair, error) {
	if err := s.QuestionSvc.RequireExists(ctx, questionID); err != nil {
		return nil, err
	}
	gens, err := s.Repo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return DerivePairs(gens), nil
}

// CreateGeneration 在同一事务中按名称查找或创建模型并写入回答
func (s *GenerationService) CreateGeneration(ctx context.Context, questionID uint, text, modelName string) (*CreateGenerationResult, error) {
	modelName = strings.TrimSpace(modelName)
	switch {
	case questionID == 0:
		return nil, fmt.Errorf("%w: question_id is required", util.ErrInvalidInput)
	case strings.TrimSpace(text) == "":
		return nil, fmt.Errorf("%w: generation_text is required", util.ErrInvalidInput)
	case modelName == "":
		return nil, fmt.Errorf("%w: model_name is required", util.ErrInvalidInput)
	}

	if err := s.QuestionSvc.RequireExists(ctx, questionID); err != nil {
		return nil, err
	}

	var result CreateGenerationResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, created, err := s.ModelRepo.WithTx(tx).FindOrCreate(ctx, modelName)
		if err != nil {
			return err
		}
		if created {
			logger.Log.Info("Model created", zap.Uint("model_id", m.ID), zap.String("model_name", m.Name))
		}

		gen := &model.Generation{
			QuestionID: questionID,
			ModelID:    m.ID,
			Text:       text,
		}
		if err := s.Repo.WithTx(tx).Create(ctx, gen); err != nil {
			return err
		}
		result = CreateGenerationResult{GenerationID: gen.ID, ModelID: m.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Generation created",
		zap.Uint("generation_id", result.GenerationID),
		zap.Uint("question_id", questionID),
		zap.Uint("model_id", result.ModelID),
	)
	return &result, nil
}

func (s *GenerationService) ListModels(ctx context.Context) ([]model.LLMModel, error) {
	return s.ModelRepo.List(ctx)
}

func (s *GenerationService) CreateModel(ctx context.Context, name string) (*model.LLMModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: model_name is required", util.ErrInvalidInput)
	}
	m, created, err := s.ModelRepo.FindOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Log.Info("Model created", zap.Uint("model_id", m.ID), zap.String("model_name", m.Name))
	}
	return m, nil
}
