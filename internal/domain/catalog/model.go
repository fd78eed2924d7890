package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offering is a bookable DNA test, e.g. a paternity test. It is stored in the
// services table.
type Offering struct {
	ID          string          `gorm:"primaryKey;size:32"`
	Type        string          `gorm:"size:100"`
	Name        string          `gorm:"size:200;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Image       string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Offering) TableName() string {
	return "services"
}

type OfferingInput struct {
	Type        string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}
