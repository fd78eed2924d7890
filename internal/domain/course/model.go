package course

import "time"

// Course is educational content published by a manager.
type Course struct {
	ID          string    `gorm:"primaryKey;size:32"`
	ManagerID   *string   `gorm:"size:32"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Course) TableName() string {
	return "courses"
}

type Input struct {
	ManagerID   string
	Title       string
	Description string
	Image       string
}
