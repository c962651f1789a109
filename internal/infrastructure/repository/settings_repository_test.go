package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_Upsert(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t))
	ctx := context.Background()

	setting, err := repo.Get(ctx, "exchange_rate_usd_to_mxn")
	require.NoError(t, err)
	assert.Nil(t, setting)

	require.NoError(t, repo.Upsert(ctx, "exchange_rate_usd_to_mxn", "20.00"))
	require.NoError(t, repo.Upsert(ctx, "exchange_rate_usd_to_mxn", "18.75"))

	setting, err = repo.Get(ctx, "exchange_rate_usd_to_mxn")
	require.NoError(t, err)
	require.NotNil(t, setting)
	assert.Equal(t, "18.75", setting.Value)

	require.NoError(t, repo.Delete(ctx, "exchange_rate_usd_to_mxn"))
	setting, err = repo.Get(ctx, "exchange_rate_usd_to_mxn")
	require.NoError(t, err)
	assert.Nil(t, setting)
}
