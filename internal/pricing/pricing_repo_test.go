package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
)

func beginTestTx(t *testing.T) *gorm.DB {
	t.Helper()

	tx := openTestDB(t).Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func TestRepositoryReplacePriceTiers(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	producer := mustCreateTestProducer(t, tx)
	product := mustCreateTestProduct(t, tx, producer.ID)

	tiers := []models.ProductPriceTier{
		{ProductID: product.ID, MinQuantityKg: dec("0"), MaxQuantityKg: decPtr("10"), PricePerKg: dec("250"), Position: 0},
		{ProductID: product.ID, MinQuantityKg: dec("10"), PricePerKg: dec("230"), Position: 1},
	}
	require.NoError(t, repo.ReplacePriceTiers(ctx, product.ID, tiers))

	loaded, err := repo.FindProductWithPricing(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.PriceTiers, 2)
	assert.Equal(t, 0, loaded.PriceTiers[0].Position)
	assert.Equal(t, 1, loaded.PriceTiers[1].Position)

	// wholesale replace drops the old rows
	replacement := []models.ProductPriceTier{
		{ProductID: product.ID, MinQuantityKg: dec("5"), PricePerKg: dec("240"), Position: 0},
	}
	require.NoError(t, repo.ReplacePriceTiers(ctx, product.ID, replacement))

	loaded, err = repo.FindProductWithPricing(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.PriceTiers, 1)
	assert.True(t, loaded.PriceTiers[0].PricePerKg.Equal(dec("240")))
}

func TestRepositoryDefaultTemplateFlip(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	producer := mustCreateTestProducer(t, tx)
	mustCreateTestTemplate(t, tx, producer.ID, true)

	require.NoError(t, repo.ClearDefaultTemplates(ctx, producer.ID))
	second := mustCreateTestTemplate(t, tx, producer.ID, true)

	templates, err := repo.ListTemplates(ctx, producer.ID)
	require.NoError(t, err)

	defaults := 0
	for _, tpl := range templates {
		if tpl.IsDefault {
			defaults++
			assert.Equal(t, second.ID, tpl.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestRepositorySnapshotQueries(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	producer := mustCreateTestProducer(t, tx)
	product := mustCreateTestProduct(t, tx, producer.ID)

	older := &models.PriceTierHistory{
		ProductID:    product.ID,
		PricingMode:  enums.PricingModeSingle,
		BasePriceFOB: dec("200"),
		ChangedAt:    time.Now().Add(-48 * time.Hour),
	}
	newer := &models.PriceTierHistory{
		ProductID:    product.ID,
		PricingMode:  enums.PricingModeSingle,
		BasePriceFOB: dec("250"),
		ChangedAt:    time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, repo.InsertSnapshot(ctx, older))
	require.NoError(t, repo.InsertSnapshot(ctx, newer))

	latest, err := repo.LatestSnapshot(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, latest.BasePriceFOB.Equal(dec("250")))

	asOf, err := repo.LatestSnapshotAtOrBefore(ctx, product.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, asOf.BasePriceFOB.Equal(dec("200")))

	list, err := repo.ListSnapshots(ctx, product.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].ChangedAt.Before(list[1].ChangedAt))
}
