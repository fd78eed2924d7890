package relative

import "time"

// Relative is a person tested alongside a customer.
type Relative struct {
	ID           string     `gorm:"primaryKey;size:32"`
	UserID       string     `gorm:"size:32;not null"`
	BookingID    *string    `gorm:"size:32"`
	Fullname     string     `gorm:"size:200;not null"`
	Gender       string     `gorm:"size:16"`
	Birthdate    *time.Time `gorm:"type:date"`
	Relationship string     `gorm:"size:64"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

func (Relative) TableName() string {
	return "relatives"
}

type Input struct {
	UserID       string
	BookingID    string
	Fullname     string
	Gender       string
	Birthdate    *time.Time
	Relationship string
}
