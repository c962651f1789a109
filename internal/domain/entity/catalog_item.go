package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem represents a product that can be sold at the register
type CatalogItem struct {
	SKU         string          `gorm:"column:sku;size:100;primaryKey" json:"sku"`
	Category    string          `gorm:"size:100;index" json:"category,omitempty"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	PLUCode     *string         `gorm:"column:plu_code;size:100;index" json:"plu_code,omitempty"`
	Barcode     *string         `gorm:"size:100;index" json:"barcode,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the table name for the CatalogItem model
func (CatalogItem) TableName() string {
	return "products"
}

// Matches reports whether the lowercased term occurs in the product name,
// PLU code or barcode. Absent codes are skipped.
func (c *CatalogItem) Matches(term string) bool {
	if strings.Contains(strings.ToLower(c.ProductName), term) {
		return true
	}
	if c.PLUCode != nil && strings.Contains(strings.ToLower(*c.PLUCode), term) {
		return true
	}
	if c.Barcode != nil && strings.Contains(strings.ToLower(*c.Barcode), term) {
		return true
	}
	return false
}
