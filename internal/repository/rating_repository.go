package repository

import (
	"context"
	"legal_eval_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository 评分只追加，不提供更新和删除
type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.DB.WithContext(ctx).Create(rating).Error
}

// ListByQuestionUser 返回用户在该问题下的全部评分历史，按 (timestamp, rating_id) 升序
func (r *RatingRepository) ListByQuestionUser(ctx context.Context, questionID, userID uint) ([]model.Rating, error) {
	ratings := []model.Rating{}
	err := r.DB.WithContext(ctx).
		Where("question_id = ? AND user_id = ?", questionID, userID).
		Order(timestampColumn(false)).
		Order("rating_id ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) All(ctx context.Context) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.DB.WithContext(ctx).
		Order("question_id ASC").
		Order("user_id ASC").
		Order(timestampColumn(false)).
		Order("rating_id ASC").
		Find(&ratings).Error
	return ratings, err
}

// timestampColumn 由方言负责给 timestamp 列名加引号
func timestampColumn(desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: desc}
}
