package service

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// StockService is the read side of stocks, with every association the state
// predicates need loaded
type StockService interface {
	Get(ctx context.Context, id int64) (*models.Stock, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Stock, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

func (s *stockService) Get(ctx context.Context, id int64) (*models.Stock, error) {
	stock, err := s.repo.GetByID(ctx, id)
	return stock, wrap("get stock", err)
}

func (s *stockService) ListByBook(ctx context.Context, bookID int64) ([]models.Stock, error) {
	stocks, err := s.repo.ListByBook(ctx, bookID)
	return stocks, wrap("list stocks", err)
}
