package services

import (
	"context"

	"tailor-backend/internal/metrics"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

// OrderService fronts the order aggregate repository. Field formats are not
// validated here: a bad payload flows to the store and surfaces as whatever
// constraint error the store produces.
type OrderService struct {
	Repo *repositories.OrderRepository
}

func NewOrderService(repo *repositories.OrderRepository) *OrderService {
	return &OrderService{Repo: repo}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*models.OrderWithItems, error) {
	return s.Repo.List(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.OrderWithItems, error) {
	return s.Repo.Get(ctx, id)
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	order, err := s.Repo.Create(ctx, req)
	metrics.OrderTransactionsTotal.WithLabelValues("create", outcome(err)).Inc()
	return order, err
}

func (s *OrderService) ReplaceOrder(ctx context.Context, id int, req *models.UpdateOrderRequest) (*models.OrderWithItems, error) {
	order, err := s.Repo.Replace(ctx, id, req)
	metrics.OrderTransactionsTotal.WithLabelValues("replace", outcome(err)).Inc()
	return order, err
}

func outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "committed"
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
