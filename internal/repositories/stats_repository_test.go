package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store/memstore"
)

func TestRevenueEmptyStore(t *testing.T) {
	db := memstore.New()
	repo := NewStatsRepository(db)

	stats, err := repo.Revenue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.TotalRevenue)
}

func TestRevenueSumsMoneyColumns(t *testing.T) {
	db := memstore.New()
	orders := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	for _, total := range []float64{1000, 2500} {
		adv := total / 2
		due := total - adv
		_, err := orders.Create(context.Background(), &models.CreateOrderRequest{
			OrderDate:  "2024-01-01",
			CustomerID: customer.ID,
			TotalPrice: &total,
			AdvancePay: &adv,
			DueAmount:  &due,
		})
		require.NoError(t, err)
	}

	stats, err := NewStatsRepository(db).Revenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 3500.0, stats.TotalRevenue)
	assert.Equal(t, 1750.0, stats.TotalAdvance)
	assert.Equal(t, 1750.0, stats.TotalDue)
}
