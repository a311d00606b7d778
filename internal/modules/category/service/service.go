package service

import (
	"context"

	"pressroom/internal/entity"
	"pressroom/internal/modules/category/repository"
)

// CategoryService is a read-only surface: categories are seeded at
// startup and referenced opaquely by articles.
type CategoryService interface {
	GetAll(ctx context.Context) ([]*entity.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetAll(ctx context.Context) ([]*entity.Category, error) {
	return s.repo.FindAll(ctx)
}
