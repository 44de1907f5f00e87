package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const maxListLimit = 100

type Service interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductNotFound
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			log.Warn().Int64("product_id", id).Msg("service: product not found")
			return nil, ErrProductNotFound
		}

		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product: %w", err)
	}

	return product, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	return categories, nil
}
