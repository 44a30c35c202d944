package model

// swagger:model User
type User struct {
	ID           uint   `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Timestamps
}

func (User) TableName() string {
	return "users"
}
