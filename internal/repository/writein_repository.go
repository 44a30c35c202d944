package repository

import (
	"context"
	"legal_eval_backend/internal/model"

	"gorm.io/gorm"
)

type WriteinRepository struct {
	DB *gorm.DB
}

func NewWriteinRepository(db *gorm.DB) *WriteinRepository {
	return &WriteinRepository{DB: db}
}

// CreateWithGenerations 在同一事务中写入补写答案及其关联的回答，任何一步失败都整体回滚
func (r *WriteinRepository) CreateWithGenerations(ctx context.Context, w *model.Writein, gens []model.WriteinGeneration) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Generations").Create(w).Error; err != nil {
			return err
		}
		if len(gens) == 0 {
			w.Generations = []model.WriteinGeneration{}
			return nil
		}
		for i := range gens {
			gens[i].WriteinID = w.ID
		}
		if err := tx.Create(&gens).Error; err != nil {
			return err
		}
		w.Generations = gens
		return nil
	})
}

func (r *WriteinRepository) Exists(ctx context.Context, questionID, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Writein{}).
		Where("question_id = ? AND user_id = ?", questionID, userID).
		Count(&count).Error
	return count > 0, err
}

// Latest 返回最新的补写答案，时间相同取 writein_id 最大者
func (r *WriteinRepository) Latest(ctx context.Context, questionID, userID uint) (*model.Writein, error) {
	var w model.Writein
	err := r.DB.WithContext(ctx).
		Preload("Generations", func(db *gorm.DB) *gorm.DB {
			return db.Order("generation_id ASC")
		}).
		Where("question_id = ? AND user_id = ?", questionID, userID).
		Order(timestampColumn(true)).
		Order("writein_id DESC").
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WriteinRepository) All(ctx context.Context) ([]model.Writein, error) {
	var writeins []model.Writein
	err := r.DB.WithContext(ctx).
		Preload("Generations").
		Order("writein_id ASC").
		Find(&writeins).Error
	return writeins, err
}
