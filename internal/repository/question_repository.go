package repository

import (
	"context"
	"legal_eval_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// QuestionFilter 问题列表的筛选条件，UserID 为 0 表示不按分配过滤
type QuestionFilter struct {
	Search string
	UserID uint
	Page   int
	Limit  int
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).First(&q, "question_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("question_id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountExisting 返回 ids 中实际存在的问题数量
func (r *QuestionRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("question_id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) List(ctx context.Context, f QuestionFilter) ([]model.Question, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if f.UserID != 0 {
		query = query.
			Joins("JOIN user_questions uq ON uq.question_id = questions.question_id").
			Where("uq.user_id = ?", f.UserID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		query = query.Where("LOWER(questions.question_text) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(s))+"%")
	}

	// Count 与 Find 各自基于同一组条件派生
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	questions := []model.Question{}
	offset := (f.Page - 1) * f.Limit
	err := query.
		Select("questions.*").
		Order("questions.question_id ASC").
		Offset(offset).
		Limit(f.Limit).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) All(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).Order("question_id ASC").Find(&questions).Error
	return questions, err
}

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
