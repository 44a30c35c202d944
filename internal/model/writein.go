package model

import "time"

// Writein 所有回答对都不可用时用户补写的答案
// swagger:model Writein
type Writein struct {
	ID               uint                `gorm:"column:writein_id;primaryKey;autoIncrement" json:"writein_id"`
	QuestionID       uint                `gorm:"index:idx_writeins_question_user,priority:1;not null" json:"question_id"`
	UserID           uint                `gorm:"index:idx_writeins_question_user,priority:2;not null" json:"user_id"`
	Text             string              `gorm:"column:writein_text;type:text;not null" json:"writein_text"`
	TimeSpentSeconds int                 `gorm:"not null;default:0" json:"time_spent"`
	Timestamp        time.Time           `gorm:"autoCreateTime" json:"timestamp"`
	Generations      []WriteinGeneration `gorm:"foreignKey:WriteinID;references:ID" json:"generations"`
}

func (Writein) TableName() string {
	return "writeins"
}

// UsedGenerationIDs 补写时参考过的回答
func (w *Writein) UsedGenerationIDs() []uint {
	ids := make([]uint, 0, len(w.Generations))
	for _, g := range w.Generations {
		if g.Used {
			ids = append(ids, g.GenerationID)
		}
	}
	return ids
}

type WriteinGeneration struct {
	WriteinID    uint `gorm:"primaryKey;autoIncrement:false" json:"-"`
	GenerationID uint `gorm:"primaryKey;autoIncrement:false" json:"generation_id"`
	Used         bool `gorm:"not null;default:false" json:"used"`
}

func (WriteinGeneration) TableName() string {
	return "writein_generations"
}
