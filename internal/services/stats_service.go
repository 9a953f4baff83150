package services

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

type StatsService struct {
	Repo *repositories.StatsRepository
}

func NewStatsService(repo *repositories.StatsRepository) *StatsService {
	return &StatsService{Repo: repo}
}

func (s *StatsService) Revenue(ctx context.Context) (*models.RevenueStats, error) {
	return s.Repo.Revenue(ctx)
}
