package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	articleRepo "pressroom/internal/modules/article/repository"
)

const pendingKey = "pending:article_views"

// ViewService counts article detail reads in Redis and periodically
// folds the counters into the articles table. Views never participate
// in any engagement invariant; losing a few on crash is acceptable.
type ViewService interface {
	IncrementView(ctx context.Context, articleID, userID uuid.UUID) error
	StartViewSyncWorker(ctx context.Context)
}

type viewService struct {
	redisClient *redis.Client
	articleRepo articleRepo.ArticleRepository
	logger      zerolog.Logger
}

func NewViewService(redisClient *redis.Client, articleRepo articleRepo.ArticleRepository, logger zerolog.Logger) ViewService {
	return &viewService{
		redisClient: redisClient,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

func (s *viewService) IncrementView(ctx context.Context, articleID, userID uuid.UUID) error {
	if s.redisClient == nil {
		return nil
	}

	// One counted view per user per article per hour.
	userViewKey := fmt.Sprintf("article:user_view:%s:%s", articleID, userID)

	exists, err := s.redisClient.Exists(ctx, userViewKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check user view: %w", err)
	}
	if exists == 1 {
		return nil
	}

	viewKey := fmt.Sprintf("article:views:%s", articleID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if _, err := s.redisClient.SAdd(ctx, pendingKey, articleID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	if _, err := s.redisClient.SetEx(ctx, userViewKey, "viewed", time.Hour).Result(); err != nil {
		return fmt.Errorf("failed to set user view: %w", err)
	}

	return nil
}

func (s *viewService) syncViewsToDB(ctx context.Context) {
	articleIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list pending article views")
		return
	}

	for _, idStr := range articleIDs {
		articleID, err := uuid.Parse(idStr)
		if err != nil {
			s.redisClient.SRem(ctx, pendingKey, idStr)
			continue
		}

		viewKey := fmt.Sprintf("article:views:%s", articleID)
		countStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			s.logger.Error().Err(err).Str("article_id", idStr).Msg("failed to read view counter")
			continue
		}

		count, _ := strconv.ParseInt(countStr, 10, 64)
		if count > 0 {
			if err := s.articleRepo.AddViews(ctx, articleID, count); err != nil {
				s.logger.Error().Err(err).Str("article_id", idStr).Msg("failed to sync views")
				continue
			}
		}

		s.redisClient.Del(ctx, viewKey)
		s.redisClient.SRem(ctx, pendingKey, idStr)
	}
}

func (s *viewService) StartViewSyncWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	s.logger.Info().Msg("view sync worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		}
	}
}
