package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	domainRepo "github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, posID string) (*entity.IdempotencyKey, error) {
	var record entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND pos_id = ?", key, posID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create ignores a second record for the same key, which happens when two
// retries of one sale race; the first stored response wins. An expired record
// that the sweeper has not removed yet is replaced.
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("key = ? AND pos_id = ? AND expires_at < ?", ikey.Key, ikey.POSID, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error; err != nil {
			return err
		}
		return tx.
			Where(entity.IdempotencyKey{Key: ikey.Key, POSID: ikey.POSID}).
			FirstOrCreate(ikey).Error
	})
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
