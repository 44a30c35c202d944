package repository

import (
	"context"
	"legal_eval_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) IsAssigned(ctx context.Context, userID, questionID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.UserQuestion{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) ListQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.WithContext(ctx).
		Model(&model.UserQuestion{}).
		Where("user_id = ?", userID).
		Order("question_id ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

// Assign 幂等写入分配关系，返回新增的条数
func (r *AssignmentRepository) Assign(ctx context.Context, userID uint, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.UserQuestion, 0, len(questionIDs))
	for _, qid := range questionIDs {
		rows = append(rows, model.UserQuestion{UserID: userID, QuestionID: qid})
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *AssignmentRepository) Unassign(ctx context.Context, userID uint, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Delete(&model.UserQuestion{})
	return res.RowsAffected, res.Error
}
