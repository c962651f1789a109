package repository

import (
	"context"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
)

// IdempotencyRepository stores finalize responses so a retried sale is replayed
// instead of recorded twice. Keys are unique per register.
type IdempotencyRepository interface {
	// GetByKey returns the record for key on the given register, nil if none
	GetByKey(ctx context.Context, key, posID string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes records that expired before now and reports how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
