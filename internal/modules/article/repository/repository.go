package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pressroom/internal/entity"
)

// AuthorStat is one row of the authors feed: a user and how many
// published articles they have.
type AuthorStat struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Username  string    `json:"username"`
	Published int64     `json:"published"`
}

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindPublished lists published articles, optionally restricted to a
	// category, ordered newest-first or by cached rating.
	FindPublished(ctx context.Context, categoryID *uuid.UUID, byRating bool) ([]*entity.Article, error)
	// FindPending lists the moderation queue oldest-first.
	FindPending(ctx context.Context) ([]*entity.Article, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Article, error)
	FindBookmarkedBy(ctx context.Context, userID uuid.UUID) ([]*entity.Article, error)
	AuthorsWithPublished(ctx context.Context) ([]AuthorStat, error)

	// TransitionStatus is a compare-and-swap on the publication state:
	// the row is updated only when it is still in from. Returns whether
	// a row actually moved, so callers can treat a no-op as idempotent
	// success.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ArticleStatus) (bool, error)
	// TransitionStatusBatch applies the same CAS to many articles.
	TransitionStatusBatch(ctx context.Context, ids []uuid.UUID, from, to entity.ArticleStatus) (int64, error)

	// AddViews folds a view-counter delta into the article row.
	AddViews(ctx context.Context, id uuid.UUID, delta int64) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *entity.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Update(ctx context.Context, article *entity.Article) error {
	// Rating and views belong to the rating path and the view sync
	// worker; an edit racing either must not write back the stale
	// in-memory copies read earlier in the request.
	return r.db.WithContext(ctx).
		Omit(clause.Associations, "rating", "views", "created_at").
		Save(article).Error
}

func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Votes, ratings and bookmarks go with it via FK cascade.
	return r.db.WithContext(ctx).Delete(&entity.Article{}, "id = ?", id).Error
}

func (r *articleRepository) FindPublished(ctx context.Context, categoryID *uuid.UUID, byRating bool) ([]*entity.Article, error) {
	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("status = ?", entity.StatusPublished)

	if categoryID != nil {
		query = query.Where("category_id = ?", categoryID)
	}

	if byRating {
		query = query.Order("rating DESC").Order("created_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	var articles []*entity.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) FindPending(ctx context.Context) ([]*entity.Article, error) {
	var articles []*entity.Article
	// Oldest first: whoever has waited longest is reviewed first.
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("status = ?", entity.StatusPending).
		Order("created_at ASC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Article, error) {
	var articles []*entity.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) FindBookmarkedBy(ctx context.Context, userID uuid.UUID) ([]*entity.Article, error) {
	var articles []*entity.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Joins("JOIN bookmarks ON bookmarks.article_id = articles.id").
		Where("bookmarks.user_id = ?", userID).
		Order("articles.created_at DESC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) AuthorsWithPublished(ctx context.Context) ([]AuthorStat, error) {
	var stats []AuthorStat
	err := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Select("articles.author_id, users.username, COUNT(*) AS published").
		Joins("JOIN users ON users.id = articles.author_id").
		Where("articles.status = ?", entity.StatusPublished).
		Group("articles.author_id, users.username").
		Order("published DESC, users.username ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *articleRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ArticleStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *articleRepository) TransitionStatusBatch(ctx context.Context, ids []uuid.UUID, from, to entity.ArticleStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("id IN ? AND status = ?", ids, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *articleRepository) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}
