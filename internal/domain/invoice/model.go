package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID        string          `gorm:"primaryKey;size:32"`
	BookingID string          `gorm:"size:32;not null"`
	Date      time.Time       `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	Details   []Detail        `gorm:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Detail is one billed line of an invoice.
type Detail struct {
	ID        string          `gorm:"primaryKey;size:32"`
	InvoiceID string          `gorm:"size:32;not null"`
	ServiceID string          `gorm:"size:32;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (Detail) TableName() string {
	return "invoice_details"
}

// Total is the amount the lines add up to.
func (i Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, detail := range i.Details {
		total = total.Add(detail.Price.Mul(decimal.NewFromInt(int64(detail.Quantity))))
	}
	return total
}

type DetailInput struct {
	ServiceID string
	Quantity  int
}

type CreateInput struct {
	BookingID string
	Date      time.Time
	// Price is used only when no details are given.
	Price   *decimal.Decimal
	Details []DetailInput
}

type UpdateInput struct {
	Date  time.Time
	Price *decimal.Decimal
}
