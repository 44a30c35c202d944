package model

import "time"

// Timestamps 只记录创建时间：题目、回答、评分与补写均为只追加数据，不做软删除
// swagger:model
type Timestamps struct {
	CreatedAt time.Time `json:"-"`
}
