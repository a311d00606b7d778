package service

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"pressroom/internal/entity"
	"pressroom/internal/modules/article/dto"
	"pressroom/internal/modules/article/repository"
	engDto "pressroom/internal/modules/engagement/dto"
	"pressroom/pkg/apperror"
)

// MockArticleRepository is a mock implementation of ArticleRepository.
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) FindPublished(ctx context.Context, categoryID *uuid.UUID, byRating bool) ([]*entity.Article, error) {
	args := m.Called(ctx, categoryID, byRating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}

func (m *MockArticleRepository) FindPending(ctx context.Context) ([]*entity.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Article, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBookmarkedBy(ctx context.Context, userID uuid.UUID) ([]*entity.Article, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}

func (m *MockArticleRepository) AuthorsWithPublished(ctx context.Context) ([]repository.AuthorStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AuthorStat), args.Error(1)
}

func (m *MockArticleRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ArticleStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) TransitionStatusBatch(ctx context.Context, ids []uuid.UUID, from, to entity.ArticleStatus) (int64, error) {
	args := m.Called(ctx, ids, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Category), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockEngagementService is a mock implementation of EngagementService.
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) CastVote(ctx context.Context, userID, articleID uuid.UUID, direction int) (*engDto.SummaryResponse, error) {
	args := m.Called(ctx, userID, articleID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engDto.SummaryResponse), args.Error(1)
}

func (m *MockEngagementService) Rate(ctx context.Context, userID, articleID uuid.UUID, stars int) (*engDto.RatingResponse, error) {
	args := m.Called(ctx, userID, articleID, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engDto.RatingResponse), args.Error(1)
}

func (m *MockEngagementService) ToggleBookmark(ctx context.Context, userID, articleID uuid.UUID) (*engDto.BookmarkResponse, error) {
	args := m.Called(ctx, userID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engDto.BookmarkResponse), args.Error(1)
}

func (m *MockEngagementService) Summary(ctx context.Context, articleID uuid.UUID) (*engDto.SummaryResponse, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engDto.SummaryResponse), args.Error(1)
}

func (m *MockEngagementService) SummaryBatch(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID]engDto.SummaryResponse, error) {
	args := m.Called(ctx, articleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]engDto.SummaryResponse), args.Error(1)
}

func (m *MockEngagementService) IsBookmarked(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, articleID)
	return args.Bool(0), args.Error(1)
}

// MockViewService is a mock implementation of ViewService.
type MockViewService struct {
	mock.Mock
}

func (m *MockViewService) IncrementView(ctx context.Context, articleID, userID uuid.UUID) error {
	args := m.Called(ctx, articleID, userID)
	return args.Error(0)
}

func (m *MockViewService) StartViewSyncWorker(ctx context.Context) {
	m.Called(ctx)
}

// MockImageStorage is a mock implementation of ImageStorage.
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	args := m.Called(ctx, r, folder, fileName)
	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

type testMocks struct {
	repo       *MockArticleRepository
	categories *MockCategoryRepository
	users      *MockUserRepository
	engagement *MockEngagementService
	views      *MockViewService
}

func newTestArticleService() (*testMocks, ArticleService) {
	m := &testMocks{
		repo:       new(MockArticleRepository),
		categories: new(MockCategoryRepository),
		users:      new(MockUserRepository),
		engagement: new(MockEngagementService),
		views:      new(MockViewService),
	}
	svc := NewArticleService(m.repo, m.categories, m.users, m.engagement, m.views, nil)
	return m, svc
}

func emptySummary() *engDto.SummaryResponse {
	return &engDto.SummaryResponse{}
}

func TestArticleService_Create_StatusDependsOnRole(t *testing.T) {
	categoryID := uuid.New()
	category := &entity.Category{ID: categoryID, Name: "Backend", Slug: "backend"}

	tests := []struct {
		name           string
		role           entity.Role
		expectedStatus entity.ArticleStatus
	}{
		{"regular author waits for review", entity.RoleUser, entity.StatusPending},
		{"admin publishes directly", entity.RoleAdmin, entity.StatusPublished},
		{"superadmin publishes directly", entity.RoleSuperAdmin, entity.StatusPublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := newTestArticleService()
			userID := uuid.New()

			m.users.On("FindByID", mock.Anything, userID.String()).
				Return(&entity.User{ID: userID, Username: "writer", Role: tt.role}, nil)
			m.categories.On("FindByID", mock.Anything, categoryID).Return(category, nil)
			m.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Article) bool {
				return a.Status == tt.expectedStatus
			})).Return(nil)
			m.engagement.On("Summary", mock.Anything, mock.Anything).Return(emptySummary(), nil)

			resp, err := svc.Create(context.Background(), userID, dto.CreateArticleInput{
				Title:      "On indexes",
				Content:    "<p>body</p>",
				CategoryID: categoryID.String(),
			}, nil)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.Status)
			m.repo.AssertExpectations(t)
		})
	}
}

func TestArticleService_Create_SanitizesContent(t *testing.T) {
	m, svc := newTestArticleService()
	userID := uuid.New()
	categoryID := uuid.New()

	m.users.On("FindByID", mock.Anything, userID.String()).
		Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)
	m.categories.On("FindByID", mock.Anything, categoryID).
		Return(&entity.Category{ID: categoryID}, nil)
	m.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Article) bool {
		return a.Content == "<p>hello</p>"
	})).Return(nil)
	m.engagement.On("Summary", mock.Anything, mock.Anything).Return(emptySummary(), nil)

	resp, err := svc.Create(context.Background(), userID, dto.CreateArticleInput{
		Title:      "XSS",
		Content:    `<p>hello</p><script>alert(1)</script>`,
		CategoryID: categoryID.String(),
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", resp.Content)
}

func TestArticleService_Create_Rejections(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	tests := []struct {
		name          string
		categoryID    string
		setupMock     func(*testMocks)
		expectedError error
	}{
		{
			name:       "banned author",
			categoryID: categoryID.String(),
			setupMock: func(m *testMocks) {
				m.users.On("FindByID", mock.Anything, userID.String()).
					Return(&entity.User{ID: userID, Banned: true}, nil)
			},
			expectedError: apperror.ErrForbidden,
		},
		{
			name:       "unknown author",
			categoryID: categoryID.String(),
			setupMock: func(m *testMocks) {
				m.users.On("FindByID", mock.Anything, userID.String()).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperror.ErrUnauthorized,
		},
		{
			name:       "malformed category id",
			categoryID: "not-a-uuid",
			setupMock: func(m *testMocks) {
				m.users.On("FindByID", mock.Anything, userID.String()).
					Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)
			},
			expectedError: apperror.ErrBadRequest,
		},
		{
			name:       "unknown category",
			categoryID: categoryID.String(),
			setupMock: func(m *testMocks) {
				m.users.On("FindByID", mock.Anything, userID.String()).
					Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)
				m.categories.On("FindByID", mock.Anything, categoryID).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperror.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := newTestArticleService()
			tt.setupMock(m)

			resp, err := svc.Create(context.Background(), userID, dto.CreateArticleInput{
				Title:      "t",
				Content:    "c",
				CategoryID: tt.categoryID,
			}, nil)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, resp)
			m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestArticleService_Update_ForcesPendingForNonManager(t *testing.T) {
	m, svc := newTestArticleService()
	authorID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())
	categoryID := uuid.New()

	m.users.On("FindByID", mock.Anything, authorID.String()).
		Return(&entity.User{ID: authorID, Role: entity.RoleUser}, nil)
	m.repo.On("FindByID", mock.Anything, articleID).
		Return(&entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPublished}, nil)
	m.categories.On("FindByID", mock.Anything, categoryID).
		Return(&entity.Category{ID: categoryID}, nil)
	m.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Article) bool {
		return a.Status == entity.StatusPending
	})).Return(nil)
	m.engagement.On("Summary", mock.Anything, articleID).Return(emptySummary(), nil)

	resp, err := svc.Update(context.Background(), authorID, articleID, dto.UpdateArticleInput{
		Title:      "edited",
		Content:    "edited",
		CategoryID: categoryID.String(),
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPending, resp.Status)
	m.repo.AssertExpectations(t)
}

func TestArticleService_Update_ManagerKeepsStatus(t *testing.T) {
	m, svc := newTestArticleService()
	adminID := uuid.New()
	authorID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())
	categoryID := uuid.New()

	m.users.On("FindByID", mock.Anything, adminID.String()).
		Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
	m.repo.On("FindByID", mock.Anything, articleID).
		Return(&entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPublished}, nil)
	m.categories.On("FindByID", mock.Anything, categoryID).
		Return(&entity.Category{ID: categoryID}, nil)
	m.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Article) bool {
		return a.Status == entity.StatusPublished
	})).Return(nil)
	m.engagement.On("Summary", mock.Anything, articleID).Return(emptySummary(), nil)

	resp, err := svc.Update(context.Background(), adminID, articleID, dto.UpdateArticleInput{
		Title:      "tidied up",
		Content:    "tidied up",
		CategoryID: categoryID.String(),
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, resp.Status)
}

func TestArticleService_Update_StrangerForbidden(t *testing.T) {
	m, svc := newTestArticleService()
	strangerID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())

	m.users.On("FindByID", mock.Anything, strangerID.String()).
		Return(&entity.User{ID: strangerID, Role: entity.RoleUser}, nil)
	m.repo.On("FindByID", mock.Anything, articleID).
		Return(&entity.Article{ID: articleID, AuthorID: uuid.New(), Status: entity.StatusPublished}, nil)

	_, err := svc.Update(context.Background(), strangerID, articleID, dto.UpdateArticleInput{
		Title:      "x",
		Content:    "x",
		CategoryID: uuid.New().String(),
	}, nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestArticleService_Detail_Visibility(t *testing.T) {
	authorID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())
	pending := &entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPending}

	t.Run("guest cannot read pending", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.repo.On("FindByID", mock.Anything, articleID).Return(pending, nil)

		_, err := svc.Detail(context.Background(), nil, articleID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("author reads own pending", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.repo.On("FindByID", mock.Anything, articleID).Return(pending, nil)
		m.users.On("FindByID", mock.Anything, authorID.String()).
			Return(&entity.User{ID: authorID, Role: entity.RoleUser}, nil)
		m.engagement.On("Summary", mock.Anything, articleID).Return(emptySummary(), nil)
		m.engagement.On("IsBookmarked", mock.Anything, authorID, articleID).Return(false, nil)
		m.views.On("IncrementView", mock.Anything, articleID, authorID).Return(nil)

		resp, err := svc.Detail(context.Background(), &authorID, articleID)
		assert.NoError(t, err)
		assert.False(t, resp.IsPublished)
	})

	t.Run("reader gets bookmark state and counts a view", func(t *testing.T) {
		m, svc := newTestArticleService()
		readerID := uuid.New()
		published := &entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPublished}

		m.repo.On("FindByID", mock.Anything, articleID).Return(published, nil)
		m.users.On("FindByID", mock.Anything, readerID.String()).
			Return(&entity.User{ID: readerID, Role: entity.RoleUser}, nil)
		m.engagement.On("Summary", mock.Anything, articleID).Return(emptySummary(), nil)
		m.engagement.On("IsBookmarked", mock.Anything, readerID, articleID).Return(true, nil)
		m.views.On("IncrementView", mock.Anything, articleID, readerID).Return(nil)

		resp, err := svc.Detail(context.Background(), &readerID, articleID)
		assert.NoError(t, err)
		assert.True(t, resp.IsBookmarked)
		assert.True(t, resp.IsPublished)
		m.views.AssertExpectations(t)
	})
}

func TestArticleService_FeedByCategory_UnknownSlug(t *testing.T) {
	m, svc := newTestArticleService()
	m.categories.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.FeedByCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestArticleService_FeedAll_MergesVoteCounts(t *testing.T) {
	m, svc := newTestArticleService()
	firstID := uuid.Must(uuid.NewV7())
	secondID := uuid.Must(uuid.NewV7())

	m.repo.On("FindPublished", mock.Anything, (*uuid.UUID)(nil), false).Return([]*entity.Article{
		{ID: firstID, Status: entity.StatusPublished, Author: entity.User{Username: "a"}},
		{ID: secondID, Status: entity.StatusPublished, Author: entity.User{Username: "b"}},
	}, nil)
	m.engagement.On("SummaryBatch", mock.Anything, []uuid.UUID{firstID, secondID}).
		Return(map[uuid.UUID]engDto.SummaryResponse{
			firstID: {Likes: 4, Dislikes: 1, LikeRatioPercent: 80},
		}, nil)

	feed, err := svc.FeedAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, feed, 2)
	assert.Equal(t, int64(4), feed[0].Likes)
	assert.Equal(t, 80.0, feed[0].LikeRatioPercent)
	assert.Zero(t, feed[1].Likes)
}
