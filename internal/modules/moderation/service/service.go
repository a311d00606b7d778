package service

import (
	"context"

	"github.com/google/uuid"

	articleDto "pressroom/internal/modules/article/dto"
	article "pressroom/internal/modules/article/service"
)

// ModerationService is the read/act surface over articles awaiting
// approval. All state changes delegate to the article service's state
// machine; this layer only shapes the queue.
type ModerationService interface {
	Queue(ctx context.Context, actorID uuid.UUID) ([]*articleDto.ArticleResponse, error)
	Approve(ctx context.Context, actorID, articleID uuid.UUID) error
	Unpublish(ctx context.Context, actorID uuid.UUID, articleIDs []uuid.UUID) (int64, error)
}

type moderationService struct {
	articles article.ArticleService
}

func NewModerationService(articles article.ArticleService) ModerationService {
	return &moderationService{articles: articles}
}

func (s *moderationService) Queue(ctx context.Context, actorID uuid.UUID) ([]*articleDto.ArticleResponse, error) {
	return s.articles.ListPending(ctx, actorID)
}

func (s *moderationService) Approve(ctx context.Context, actorID, articleID uuid.UUID) error {
	return s.articles.Approve(ctx, actorID, articleID)
}

func (s *moderationService) Unpublish(ctx context.Context, actorID uuid.UUID, articleIDs []uuid.UUID) (int64, error) {
	return s.articles.Unpublish(ctx, actorID, articleIDs)
}
