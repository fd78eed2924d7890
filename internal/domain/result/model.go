package result

import "time"

// TestResult is the lab outcome recorded for a booking. Description holds
// the locus comparison table as tab separated text.
type TestResult struct {
	ID          string    `gorm:"primaryKey;size:32"`
	CustomerID  *string   `gorm:"size:32"`
	StaffID     *string   `gorm:"size:32"`
	ServiceID   *string   `gorm:"size:32"`
	BookingID   string    `gorm:"size:32;not null"`
	Date        time.Time `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:64"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (TestResult) TableName() string {
	return "test_results"
}

const DefaultStatus = "Đã có kết quả"

type CreateInput struct {
	BookingID   string
	StaffID     string
	Date        time.Time
	Description string
	Status      string
}

type UpdateInput struct {
	Date        time.Time
	Description string
	Status      string
}

// Document is everything a renderer needs to print a result.
type Document struct {
	Result       TestResult
	CustomerName string
	ServiceName  string
	Assessment   Assessment
	GeneratedAt  time.Time
}
