package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pressroom/internal/entity"
	"pressroom/internal/modules/article/dto"
	"pressroom/pkg/apperror"
)

func (s *articleService) Approve(ctx context.Context, actorID, articleID uuid.UUID) error {
	actor, err := s.findActiveUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.CanManageArticles() {
		return fmt.Errorf("moderator access required: %w", apperror.ErrForbidden)
	}

	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return err
	}

	if article.IsPublished() {
		// Already approved, possibly by a concurrent moderator.
		return nil
	}

	if !entity.CanTransition(entity.StatusPending, entity.StatusPublished) {
		return fmt.Errorf("cannot publish from %s: %w", article.Status, apperror.ErrConflict)
	}

	// CAS: a racing approve loses the swap but still succeeds.
	_, err = s.repo.TransitionStatus(ctx, articleID, entity.StatusPending, entity.StatusPublished)
	return err
}

func (s *articleService) Withdraw(ctx context.Context, userID, articleID uuid.UUID) error {
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return err
	}

	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return err
	}

	// Only the author may voluntarily pull their article; moderators use
	// Unpublish instead.
	if article.AuthorID != user.ID {
		return fmt.Errorf("not the author: %w", apperror.ErrForbidden)
	}

	if article.Status == entity.StatusPending {
		return nil
	}

	_, err = s.repo.TransitionStatus(ctx, articleID, entity.StatusPublished, entity.StatusPending)
	return err
}

func (s *articleService) Unpublish(ctx context.Context, actorID uuid.UUID, articleIDs []uuid.UUID) (int64, error) {
	actor, err := s.findActiveUser(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if !actor.CanManageArticles() {
		return 0, fmt.Errorf("moderator access required: %w", apperror.ErrForbidden)
	}

	return s.repo.TransitionStatusBatch(ctx, articleIDs, entity.StatusPublished, entity.StatusPending)
}

func (s *articleService) ListPending(ctx context.Context, actorID uuid.UUID) ([]*dto.ArticleResponse, error) {
	actor, err := s.findActiveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageArticles() {
		// Denied outright rather than shown an empty queue.
		return nil, fmt.Errorf("moderator access required: %w", apperror.ErrForbidden)
	}

	articles, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(ctx, articles, false), nil
}
