package repository

import (
	"context"
	"legal_eval_backend/internal/model"

	"gorm.io/gorm"
)

type GenerationRepository struct {
	DB *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{DB: db}
}

func (r *GenerationRepository) WithTx(tx *gorm.DB) *GenerationRepository {
	return &GenerationRepository{DB: tx}
}

func (r *GenerationRepository) Create(ctx context.Context, g *model.Generation) error {
	return r.DB.WithContext(ctx).Omit("Model").Create(g).Error
}

// ListByQuestion 按 generation_id 升序返回问题的所有回答，并加载模型名称
func (r *GenerationRepository) ListByQuestion(ctx context.Context, questionID uint) ([]model.Generation, error) {
	gens := []model.Generation{}
	err := r.DB.WithContext(ctx).
		Preload("Model").
		Where("question_id = ?", questionID).
		Order("generation_id ASC").
		Find(&gens).Error
	return gens, err
}

// CountInQuestion 统计 ids 中属于该问题的回答数量
func (r *GenerationRepository) CountInQuestion(ctx context.Context, questionID uint, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.DB.WithContext(ctx).
		Model(&model.Generation{}).
		Where("question_id = ? AND generation_id IN ?", questionID, ids).
		Count(&count).Error
	return count, err
}

func (r *GenerationRepository) All(ctx context.Context) ([]model.Generation, error) {
	var gens []model.Generation
	err := r.DB.WithContext(ctx).Preload("Model").Order("generation_id ASC").Find(&gens).Error
	return gens, err
}
