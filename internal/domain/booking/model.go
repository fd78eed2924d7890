package booking

import (
	"time"

	"dna-clinic-go/internal/domain/lifecycle"
)

// Booking is a scheduled test appointment.
type Booking struct {
	ID         string                  `gorm:"primaryKey;size:32"`
	CustomerID string                  `gorm:"size:32;not null"`
	StaffID    *string                 `gorm:"size:32"`
	ServiceID  string                  `gorm:"size:32;not null"`
	Date       time.Time               `gorm:"not null"`
	Address    string                  `gorm:"type:text"`
	Method     lifecycle.Method        `gorm:"size:32;not null"`
	Status     lifecycle.BookingStatus `gorm:"size:32;not null"`
	CreatedAt  time.Time               `gorm:"autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

type CreateInput struct {
	CustomerID string
	StaffID    string
	ServiceID  string
	Date       time.Time
	Address    string
	Method     string
}

// UpdateInput changes scheduling details; zero values keep the current ones.
type UpdateInput struct {
	Date    time.Time
	Address string
	StaffID string
}
