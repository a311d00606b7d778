package repository

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pressroom/internal/entity"
)

// VoteCounts is a live aggregate over the vote rows of one article.
type VoteCounts struct {
	Likes    int64
	Dislikes int64
}

type EngagementRepository interface {
	// ToggleVote deletes the (user, article) vote when it already has
	// the given value (toggle-off), otherwise upserts it to that value.
	// Runs as one transaction guarded by the pair's unique index; never
	// a read-then-write from the caller.
	ToggleVote(ctx context.Context, userID, articleID uuid.UUID, value int) error
	CountVotes(ctx context.Context, articleID uuid.UUID) (VoteCounts, error)
	CountVotesBatch(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]VoteCounts, error)

	// UpsertRating writes the (user, article) rating and recomputes the
	// article's cached average inside the same transaction, so a
	// concurrent reader never sees a stale cache next to a newer row.
	// Returns the new average, rounded to 2 decimals.
	UpsertRating(ctx context.Context, userID, articleID uuid.UUID, value int) (float64, error)

	// ToggleBookmark creates the bookmark when absent and deletes it
	// when present; returns the resulting state.
	ToggleBookmark(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
	IsBookmarked(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) ToggleVote(ctx context.Context, userID, articleID uuid.UUID, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ? AND value = ?", userID, articleID, value).
			Delete(&entity.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			// Same direction existed; toggled off.
			return nil
		}

		vote := &entity.Vote{UserID: userID, ArticleID: articleID, Value: value}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
		}).Create(vote).Error
	})
}

func (r *engagementRepository) CountVotes(ctx context.Context, articleID uuid.UUID) (VoteCounts, error) {
	var counts VoteCounts

	err := r.db.WithContext(ctx).
		Model(&entity.Vote{}).
		Select(
			"COUNT(*) FILTER (WHERE value = 1) AS likes, COUNT(*) FILTER (WHERE value = -1) AS dislikes",
		).
		Where("article_id = ?", articleID).
		Scan(&counts).Error

	return counts, err
}

func (r *engagementRepository) CountVotesBatch(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]VoteCounts, error) {
	out := make(map[uuid.UUID]VoteCounts, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}

	type row struct {
		ArticleID uuid.UUID
		Likes     int64
		Dislikes  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&entity.Vote{}).
		Select(
			"article_id, COUNT(*) FILTER (WHERE value = 1) AS likes, COUNT(*) FILTER (WHERE value = -1) AS dislikes",
		).
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		out[rw.ArticleID] = VoteCounts{Likes: rw.Likes, Dislikes: rw.Dislikes}
	}
	return out, nil
}

func (r *engagementRepository) UpsertRating(ctx context.Context, userID, articleID uuid.UUID, value int) (float64, error) {
	var average float64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating := &entity.Rating{UserID: userID, ArticleID: articleID, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
		}).Create(rating).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&entity.Rating{}).
			Where("article_id = ?", articleID).
			Select("COALESCE(AVG(value), 0)").
			Scan(&avg).Error; err != nil {
			return err
		}

		average = math.Round(avg*100) / 100

		return tx.Model(&entity.Article{}).
			Where("id = ?", articleID).
			Update("rating", average).Error
	})

	return average, err
}

func (r *engagementRepository) ToggleBookmark(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	var bookmarked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&entity.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			bookmarked = false
			return nil
		}

		bookmark := &entity.Bookmark{UserID: userID, ArticleID: articleID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark).Error; err != nil {
			return err
		}
		bookmarked = true
		return nil
	})

	return bookmarked, err
}

func (r *engagementRepository) IsBookmarked(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Bookmark{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}
