package kit

import (
	"time"

	"dna-clinic-go/internal/domain/lifecycle"
)

// Kit is the sample collection kit attached to a booking.
type Kit struct {
	ID          string              `gorm:"primaryKey;size:32"`
	CustomerID  *string             `gorm:"size:32"`
	StaffID     *string             `gorm:"size:32"`
	BookingID   string              `gorm:"size:32;uniqueIndex;not null"`
	Description string              `gorm:"type:text"`
	Status      lifecycle.KitStatus `gorm:"size:32;not null"`
	ReceiveDate *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Kit) TableName() string {
	return "kits"
}

// Tracking is a kit together with the booking it belongs to.
type Tracking struct {
	Kit           Kit
	BookingDate   time.Time
	ServiceID     string
	Method        lifecycle.Method
	BookingStatus lifecycle.BookingStatus
}

type CreateInput struct {
	BookingID   string
	StaffID     string
	Description string
	Status      string
}

type UpdateInput struct {
	StaffID     string
	Description string
}

// collectionStatuses are the states in which staff still has to handle a
// sample.
var collectionStatuses = []lifecycle.KitStatus{
	lifecycle.KitSampleCollected,
	lifecycle.KitInTransit,
	lifecycle.KitArrivedAtStorage,
}
