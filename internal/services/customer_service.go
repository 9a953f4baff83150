package services

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

type CustomerService struct {
	Repo *repositories.CustomerRepository
}

func NewCustomerService(repo *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	return s.Repo.Create(ctx, req)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.Repo.List(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *models.CustomerRequest) (*models.Customer, error) {
	return s.Repo.Update(ctx, id, req)
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
