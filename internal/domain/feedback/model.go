package feedback

import "time"

type Feedback struct {
	ID        string    `gorm:"primaryKey;size:32"`
	UserID    string    `gorm:"size:32;not null"`
	ServiceID string    `gorm:"size:32;not null"`
	Rating    int       `gorm:"not null"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

const (
	MinRating = 1
	MaxRating = 5
)

type Input struct {
	UserID    string
	ServiceID string
	Rating    int
	Content   string
}
