package model

import "time"

type Selection string

const (
	BothUnusable     Selection = "both_unusable"
	Gen1Usable       Selection = "gen_1_usable"
	Gen2Usable       Selection = "gen_2_usable"
	BothUsablePref1  Selection = "both_usable_pref_1"
	BothUsablePref2  Selection = "both_usable_pref_2"
	BothUsableNoPref Selection = "both_usable_no_pref"
)

var Selections = []Selection{
	BothUnusable,
	Gen1Usable,
	Gen2Usable,
	BothUsablePref1,
	BothUsablePref2,
	BothUsableNoPref,
}

func (s Selection) Valid() bool {
	for _, v := range Selections {
		if s == v {
			return true
		}
	}
	return false
}

// Mirror 交换 gen_1 与 gen_2 后等价的选择
func (s Selection) Mirror() Selection {
	switch s {
	case Gen1Usable:
		return Gen2Usable
	case Gen2Usable:
		return Gen1Usable
	case BothUsablePref1:
		return BothUsablePref2
	case BothUsablePref2:
		return BothUsablePref1
	default:
		return s
	}
}

// Rating 用户对一对回答的判断，只追加不修改
// 同一 (用户, 问题, 回答对) 以 timestamp 最大者为准，时间相同取 rating_id 最大者
// swagger:model Rating
type Rating struct {
	ID               uint      `gorm:"column:rating_id;primaryKey;autoIncrement" json:"rating_id"`
	QuestionID       uint      `gorm:"index:idx_ratings_question_user,priority:1;not null" json:"question_id"`
	UserID           uint      `gorm:"index:idx_ratings_question_user,priority:2;not null" json:"user_id"`
	GenID1           uint      `gorm:"column:gen_id_1;not null" json:"gen_1_id"`
	GenID2           uint      `gorm:"column:gen_id_2;not null" json:"gen_2_id"`
	UserSelection    Selection `gorm:"size:32;not null" json:"user_selection"`
	TimeSpentSeconds int       `gorm:"not null;default:0" json:"time_spent"`
	Timestamp        time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Rating) TableName() string {
	return "ratings"
}

// PairKey 评分对应的回答对
func (r *Rating) PairKey() PairKey {
	return PairKey{Gen1ID: r.GenID1, Gen2ID: r.GenID2}
}

// PairKey 一对回答的标识，Gen1ID 总是较小的 id
type PairKey struct {
	Gen1ID uint
	Gen2ID uint
}
