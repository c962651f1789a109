package repository

import (
	"context"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
)

// SettingsRepository defines the interface for the key/value settings table
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
