package repository

import (
	"context"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
)

// CatalogRepository defines the interface for catalog data access
type CatalogRepository interface {
	// SelectAll returns every catalog item ordered by SKU
	SelectAll(ctx context.Context) ([]entity.CatalogItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error)
	// Upsert replaces the item with the same SKU or inserts it
	Upsert(ctx context.Context, item *entity.CatalogItem) error
	Count(ctx context.Context) (int64, error)
}
