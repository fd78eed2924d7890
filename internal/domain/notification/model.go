package notification

import "time"

type Notification struct {
	ID        string    `gorm:"primaryKey;size:32"`
	UserID    string    `gorm:"size:32;not null"`
	Title     string    `gorm:"size:200;not null"`
	Message   string    `gorm:"type:text"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

type Input struct {
	UserID  string
	Title   string
	Message string
}
