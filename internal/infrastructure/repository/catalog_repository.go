package repository

import (
	"context"
	"errors"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	domainRepo "github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) SelectAll(ctx context.Context) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	err := r.db.WithContext(ctx).Order("sku ASC").Find(&items).Error
	return items, err
}

func (r *catalogRepository) GetBySKU(ctx context.Context, sku string) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *catalogRepository) Upsert(ctx context.Context, item *entity.CatalogItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "product_name", "price", "plu_code", "barcode", "updated_at"}),
		}).
		Create(item).Error
}

func (r *catalogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.CatalogItem{}).Count(&total).Error
	return total, err
}
