package model

// LLMModel 生成回答的模型，按名称唯一
// swagger:model LLMModel
type LLMModel struct {
	ID   uint   `gorm:"column:model_id;primaryKey;autoIncrement" json:"model_id"`
	Name string `gorm:"column:model_name;size:191;uniqueIndex;not null" json:"model_name"`
	Timestamps
}

func (LLMModel) TableName() string {
	return "models"
}

// Generation 某个模型对某个问题的回答
// (question_id, model_id) 不做唯一约束，重复数据允许存在
// swagger:model Generation
type Generation struct {
	ID         uint      `gorm:"column:generation_id;primaryKey;autoIncrement" json:"generation_id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	ModelID    uint      `gorm:"index;not null" json:"model_id"`
	Text       string    `gorm:"column:generation_text;type:text;not null" json:"generation_text"`
	Model      *LLMModel `gorm:"foreignKey:ModelID;references:ID" json:"-"`
	Timestamps
}

func (Generation) TableName() string {
	return "generations"
}

// ModelName 关联模型未加载时返回空字符串
func (g *Generation) ModelName() string {
	if g.Model == nil {
		return ""
	}
	return g.Model.Name
}
