package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pressroom/internal/modules/article/dto"
	"pressroom/internal/modules/article/repository"
	"pressroom/pkg/apperror"
)

func (s *articleService) FeedAll(ctx context.Context) ([]*dto.ArticleResponse, error) {
	articles, err := s.repo.FindPublished(ctx, nil, false)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, articles, false), nil
}

// FeedPopular orders by the cached star-rating average. The like ratio
// stays a live per-article read and never participates in ranking.
func (s *articleService) FeedPopular(ctx context.Context) ([]*dto.ArticleResponse, error) {
	articles, err := s.repo.FindPublished(ctx, nil, true)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, articles, false), nil
}

func (s *articleService) FeedByCategory(ctx context.Context, slug string) ([]*dto.ArticleResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	articles, err := s.repo.FindPublished(ctx, &category.ID, false)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, articles, false), nil
}

func (s *articleService) FeedAuthors(ctx context.Context) ([]repository.AuthorStat, error) {
	return s.repo.AuthorsWithPublished(ctx)
}

// Favorites and own-article feeds are reads: a banned user keeps them.
func (s *articleService) FeedFavorites(ctx context.Context, userID uuid.UUID) ([]*dto.ArticleResponse, error) {
	articles, err := s.repo.FindBookmarkedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, articles, false), nil
}

func (s *articleService) FeedMine(ctx context.Context, userID uuid.UUID) ([]*dto.ArticleResponse, error) {
	articles, err := s.repo.FindByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, articles, false), nil
}
