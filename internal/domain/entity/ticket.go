package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is a finalized sale. It is written once and never updated.
type Ticket struct {
	ID            string          `gorm:"size:64;primaryKey" json:"id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Taxes         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"taxes"`
	TotalDue      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_due"`
	PesosPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"pesos_paid"`
	DollarsPaid   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"dollars_paid"`
	CardsPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cards_paid"`
	OthersPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"others_paid"`
	TotalPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_paid"`
	Change        decimal.Decimal `gorm:"column:change;type:decimal(12,2);not null;default:0" json:"change"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"exchange_rate"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	CashierName   string          `gorm:"size:100" json:"cashier_name"`
	POSID         string          `gorm:"column:pos_id;size:50;index" json:"pos_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Items []TicketItem `gorm:"foreignKey:TicketID" json:"items,omitempty"`
}

// TableName returns the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// ShortID is the prefix printed on the receipt.
func (t *Ticket) ShortID() string {
	if len(t.ID) <= 7 {
		return t.ID
	}
	return t.ID[:7]
}

// TicketItem is one sold line, denormalized from the catalog at sale time.
type TicketItem struct {
	ID          string          `gorm:"size:64;primaryKey" json:"id"`
	TicketID    string          `gorm:"size:64;not null;index" json:"ticket_id"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	SKU         string          `gorm:"column:sku;size:100;not null" json:"sku"`
	PLUCode     *string         `gorm:"column:plu_code;size:100" json:"plu_code,omitempty"`
	Barcode     *string         `gorm:"size:100" json:"barcode,omitempty"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"line_total"`
}

// TableName returns the table name for the TicketItem model
func (TicketItem) TableName() string {
	return "ticket_items"
}
