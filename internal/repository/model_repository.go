package repository

import (
	"context"
	"legal_eval_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModelRepository struct {
	DB *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *ModelRepository) WithTx(tx *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: tx}
}

func (r *ModelRepository) List(ctx context.Context) ([]model.LLMModel, error) {
	models := []model.LLMModel{}
	err := r.DB.WithContext(ctx).Order("model_id ASC").Find(&models).Error
	return models, err
}

func (r *ModelRepository) FindByName(ctx context.Context, name string) (*model.LLMModel, error) {
	var m model.LLMModel
	err := r.DB.WithContext(ctx).Where("model_name = ?", name).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOrCreate 按名称查找模型，不存在则创建，返回模型以及是否新建
// 依赖 model_name 唯一索引：先插入，冲突时不插入再按名称回读。
// 回读必须是事务内第一次一致性读，否则 REPEATABLE READ 下读不到并发提交的同名记录
func (r *ModelRepository) FindOrCreate(ctx context.Context, name string) (*model.LLMModel, bool, error) {
	m := &model.LLMModel{Name: name}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "model_name"}}, DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return m, true, nil
	}

	existing, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
