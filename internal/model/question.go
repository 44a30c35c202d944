package model

// Question 待评测的法律问题，创建后不再修改
// swagger:model Question
type Question struct {
	ID   uint   `gorm:"column:question_id;primaryKey;autoIncrement" json:"question_id"`
	Text string `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Timestamps
}

func (Question) TableName() string {
	return "questions"
}

// UserQuestion 用户与问题的分配关系，决定用户可以评测哪些问题
type UserQuestion struct {
	UserID     uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	QuestionID uint `gorm:"primaryKey;autoIncrement:false;index" json:"question_id"`
	Timestamps
}

func (UserQuestion) TableName() string {
	return "user_questions"
}
