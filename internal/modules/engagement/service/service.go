package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	articleRepo "pressroom/internal/modules/article/repository"
	"pressroom/internal/modules/engagement/dto"
	"pressroom/internal/modules/engagement/repository"
	userRepo "pressroom/internal/modules/user/repository"
	"pressroom/pkg/apperror"
)

type EngagementService interface {
	// CastVote toggles the user's vote: same direction twice removes it,
	// the opposite direction replaces it. Returns refreshed counts.
	CastVote(ctx context.Context, userID, articleID uuid.UUID, direction int) (*dto.SummaryResponse, error)
	// Rate upserts the user's star rating (clamped into [1,5]) and
	// returns the article's new cached average.
	Rate(ctx context.Context, userID, articleID uuid.UUID, stars int) (*dto.RatingResponse, error)
	ToggleBookmark(ctx context.Context, userID, articleID uuid.UUID) (*dto.BookmarkResponse, error)
	// Summary is always computed live from the vote rows; votes change
	// too frequently for a cache to stay honest.
	Summary(ctx context.Context, articleID uuid.UUID) (*dto.SummaryResponse, error)
	SummaryBatch(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]dto.SummaryResponse, error)
	IsBookmarked(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
}

type engagementService struct {
	repo        repository.EngagementRepository
	articleRepo articleRepo.ArticleRepository
	userRepo    userRepo.UserRepository
}

func NewEngagementService(repo repository.EngagementRepository, articleRepo articleRepo.ArticleRepository, userRepo userRepo.UserRepository) EngagementService {
	return &engagementService{
		repo:        repo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
	}
}

// authorize fails fast before any mutation: the caller must exist and
// not be banned, and the article must exist.
func (s *engagementService) authorize(ctx context.Context, userID, articleID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
		}
		return err
	}

	if user.IsBanned() {
		return fmt.Errorf("account is banned: %w", apperror.ErrForbidden)
	}

	return s.ensureArticle(ctx, articleID)
}

func (s *engagementService) ensureArticle(ctx context.Context, articleID uuid.UUID) error {
	if _, err := s.articleRepo.FindByID(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("article not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *engagementService) CastVote(ctx context.Context, userID, articleID uuid.UUID, direction int) (*dto.SummaryResponse, error) {
	if direction != 1 && direction != -1 {
		return nil, fmt.Errorf("vote direction must be 1 or -1: %w", apperror.ErrInvalidInput)
	}

	if err := s.authorize(ctx, userID, articleID); err != nil {
		return nil, err
	}

	if err := s.repo.ToggleVote(ctx, userID, articleID, direction); err != nil {
		return nil, err
	}

	return s.Summary(ctx, articleID)
}

func (s *engagementService) Rate(ctx context.Context, userID, articleID uuid.UUID, stars int) (*dto.RatingResponse, error) {
	if err := s.authorize(ctx, userID, articleID); err != nil {
		return nil, err
	}

	// Out-of-range stars are clamped, not rejected: slider UIs glitch
	// and the original behavior is deliberately forgiving.
	average, err := s.repo.UpsertRating(ctx, userID, articleID, ClampStars(stars))
	if err != nil {
		return nil, err
	}

	return &dto.RatingResponse{Average: average}, nil
}

func (s *engagementService) ToggleBookmark(ctx context.Context, userID, articleID uuid.UUID) (*dto.BookmarkResponse, error) {
	if err := s.authorize(ctx, userID, articleID); err != nil {
		return nil, err
	}

	bookmarked, err := s.repo.ToggleBookmark(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}

	return &dto.BookmarkResponse{Bookmarked: bookmarked}, nil
}

func (s *engagementService) Summary(ctx context.Context, articleID uuid.UUID) (*dto.SummaryResponse, error) {
	// A summary for an unknown article is a lookup failure, not an
	// empty aggregate.
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountVotes(ctx, articleID)
	if err != nil {
		return nil, err
	}

	return &dto.SummaryResponse{
		Likes:            counts.Likes,
		Dislikes:         counts.Dislikes,
		LikeRatioPercent: LikeRatioPercent(counts.Likes, counts.Dislikes),
	}, nil
}

// SummaryBatch computes live summaries for a whole feed in one query.
func (s *engagementService) SummaryBatch(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]dto.SummaryResponse, error) {
	counts, err := s.repo.CountVotesBatch(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]dto.SummaryResponse, len(articleIDs))
	for _, id := range articleIDs {
		c := counts[id]
		out[id] = dto.SummaryResponse{
			Likes:            c.Likes,
			Dislikes:         c.Dislikes,
			LikeRatioPercent: LikeRatioPercent(c.Likes, c.Dislikes),
		}
	}
	return out, nil
}

func (s *engagementService) IsBookmarked(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	return s.repo.IsBookmarked(ctx, userID, articleID)
}
