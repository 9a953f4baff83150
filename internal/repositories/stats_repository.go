package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

type StatsRepository struct {
	DB store.Store
}

func NewStatsRepository(db store.Store) *StatsRepository {
	return &StatsRepository{DB: db}
}

// Revenue sums the money columns over all orders.
func (r *StatsRepository) Revenue(ctx context.Context) (*models.RevenueStats, error) {
	var stats models.RevenueStats
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) AS total_orders,
		        COALESCE(SUM(total_price), 0) AS total_revenue,
		        COALESCE(SUM(advance_pay), 0) AS total_advance,
		        COALESCE(SUM(due_amount), 0) AS total_due
		 FROM orders`,
	).Scan(&stats.TotalOrders, &stats.TotalRevenue, &stats.TotalAdvance, &stats.TotalDue)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
