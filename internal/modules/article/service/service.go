package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"pressroom/internal/entity"
	"pressroom/internal/modules/article/dto"
	"pressroom/internal/modules/article/repository"
	categoryRepo "pressroom/internal/modules/category/repository"
	engagement "pressroom/internal/modules/engagement/service"
	userRepo "pressroom/internal/modules/user/repository"
	view "pressroom/internal/modules/view/service"
	"pressroom/pkg/apperror"
	"pressroom/pkg/storage"
)

type ArticleService interface {
	Create(ctx context.Context, userID uuid.UUID, input dto.CreateArticleInput, image *dto.ImageFile) (*dto.ArticleResponse, error)
	Update(ctx context.Context, userID, articleID uuid.UUID, input dto.UpdateArticleInput, image *dto.ImageFile) (*dto.ArticleResponse, error)
	Delete(ctx context.Context, userID, articleID uuid.UUID) error
	Detail(ctx context.Context, userID *uuid.UUID, articleID uuid.UUID) (*dto.ArticleDetailResponse, error)

	// Approve moves a pending article to published. Approving an
	// already-published article is a no-op success.
	Approve(ctx context.Context, actorID, articleID uuid.UUID) error
	// Withdraw lets the author pull their own article back to the
	// moderation queue.
	Withdraw(ctx context.Context, userID, articleID uuid.UUID) error
	// Unpublish is the administrative bulk override: published articles
	// are forced back to pending.
	Unpublish(ctx context.Context, actorID uuid.UUID, articleIDs []uuid.UUID) (int64, error)
	ListPending(ctx context.Context, actorID uuid.UUID) ([]*dto.ArticleResponse, error)

	FeedAll(ctx context.Context) ([]*dto.ArticleResponse, error)
	FeedPopular(ctx context.Context) ([]*dto.ArticleResponse, error)
	FeedByCategory(ctx context.Context, slug string) ([]*dto.ArticleResponse, error)
	FeedAuthors(ctx context.Context) ([]repository.AuthorStat, error)
	FeedFavorites(ctx context.Context, userID uuid.UUID) ([]*dto.ArticleResponse, error)
	FeedMine(ctx context.Context, userID uuid.UUID) ([]*dto.ArticleResponse, error)
}

type articleService struct {
	repo         repository.ArticleRepository
	categoryRepo categoryRepo.CategoryRepository
	userRepo     userRepo.UserRepository
	engagement   engagement.EngagementService
	viewService  view.ViewService
	imageStorage storage.ImageStorage
	sanitizer    *bluemonday.Policy
}

func NewArticleService(
	repo repository.ArticleRepository,
	categoryRepo categoryRepo.CategoryRepository,
	userRepo userRepo.UserRepository,
	engagementService engagement.EngagementService,
	viewService view.ViewService,
	imageStorage storage.ImageStorage,
) ArticleService {
	return &articleService{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		engagement:   engagementService,
		viewService:  viewService,
		imageStorage: imageStorage,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *articleService) Create(ctx context.Context, userID uuid.UUID, input dto.CreateArticleInput, image *dto.ImageFile) (*dto.ArticleResponse, error) {
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id format: %w", apperror.ErrBadRequest)
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", apperror.ErrBadRequest)
	}

	article := &entity.Article{
		AuthorID:   user.ID,
		Title:      input.Title,
		Content:    s.sanitizer.Sanitize(input.Content),
		CategoryID: &category.ID,
		// Moderators publish directly; everyone else waits for review.
		Status: entity.StatusPending,
	}
	if user.CanManageArticles() {
		article.Status = entity.StatusPublished
	}

	if image != nil && image.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image.Reader, "articles", image.FileName)
		if err != nil {
			return nil, err
		}
		article.ImageURL = &url
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}

	article.Author = *user
	article.Category = category
	resp := s.buildResponse(ctx, article, true)
	return resp, nil
}

func (s *articleService) Update(ctx context.Context, userID, articleID uuid.UUID, input dto.UpdateArticleInput, image *dto.ImageFile) (*dto.ArticleResponse, error) {
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if article.AuthorID != user.ID && !user.CanManageArticles() {
		return nil, fmt.Errorf("not the author: %w", apperror.ErrForbidden)
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id format: %w", apperror.ErrBadRequest)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", apperror.ErrBadRequest)
	}

	article.Title = input.Title
	article.Content = s.sanitizer.Sanitize(input.Content)
	article.CategoryID = &category.ID
	article.Category = category

	if image != nil && image.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, image.Reader, "articles", image.FileName)
		if err != nil {
			return nil, err
		}
		if article.ImageURL != nil {
			// Best effort: the old cover is orphaned otherwise.
			_ = s.imageStorage.DeleteImage(ctx, *article.ImageURL)
		}
		article.ImageURL = &url
	}

	// An author without moderation rights sends the article back for
	// re-review on every edit, even an identical one. A moderator's
	// edit leaves the publication state alone.
	if !user.CanManageArticles() {
		article.Status = entity.StatusPending
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, article, true), nil
}

func (s *articleService) Delete(ctx context.Context, userID, articleID uuid.UUID) error {
	user, err := s.findActiveUser(ctx, userID)
	if err != nil {
		return err
	}

	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return err
	}

	if article.AuthorID != user.ID && !user.CanManageArticles() {
		return fmt.Errorf("not the author: %w", apperror.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, articleID); err != nil {
		return err
	}

	if article.ImageURL != nil && s.imageStorage != nil {
		_ = s.imageStorage.DeleteImage(ctx, *article.ImageURL)
	}

	return nil
}

func (s *articleService) Detail(ctx context.Context, userID *uuid.UUID, articleID uuid.UUID) (*dto.ArticleDetailResponse, error) {
	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	if userID != nil {
		// A stale token for a deleted user degrades to a guest view.
		user, _ = s.userRepo.FindByID(ctx, userID.String())
	}

	// Re-checked on every read: publication state changes concurrently.
	if !article.VisibleTo(user) {
		return nil, fmt.Errorf("article is awaiting moderation: %w", apperror.ErrForbidden)
	}

	resp := &dto.ArticleDetailResponse{
		ArticleResponse: *s.buildResponse(ctx, article, true),
		IsPublished:     article.IsPublished(),
	}

	if user != nil {
		bookmarked, err := s.engagement.IsBookmarked(ctx, user.ID, articleID)
		if err == nil {
			resp.IsBookmarked = bookmarked
		}

		if s.viewService != nil {
			_ = s.viewService.IncrementView(ctx, articleID, user.ID)
		}
	}

	return resp, nil
}

func (s *articleService) findActiveUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if user.IsBanned() {
		return nil, fmt.Errorf("account is banned: %w", apperror.ErrForbidden)
	}

	return user, nil
}

func (s *articleService) findArticle(ctx context.Context, articleID uuid.UUID) (*entity.Article, error) {
	article, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return article, nil
}
