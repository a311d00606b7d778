package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pressroom/internal/entity"
	engDto "pressroom/internal/modules/engagement/dto"
	"pressroom/pkg/apperror"
)

func TestArticleService_Approve(t *testing.T) {
	adminID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())

	t.Run("pending article gets published", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, Status: entity.StatusPending}, nil)
		m.repo.On("TransitionStatus", mock.Anything, articleID, entity.StatusPending, entity.StatusPublished).
			Return(true, nil)

		err := svc.Approve(context.Background(), adminID, articleID)
		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("already published is a no-op success", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, Status: entity.StatusPublished}, nil)

		err := svc.Approve(context.Background(), adminID, articleID)
		assert.NoError(t, err)
		m.repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost race still succeeds", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, Status: entity.StatusPending}, nil)
		// Another moderator approved between the read and the swap.
		m.repo.On("TransitionStatus", mock.Anything, articleID, entity.StatusPending, entity.StatusPublished).
			Return(false, nil)

		err := svc.Approve(context.Background(), adminID, articleID)
		assert.NoError(t, err)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		m, svc := newTestArticleService()
		userID := uuid.New()
		m.users.On("FindByID", mock.Anything, userID.String()).
			Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)

		err := svc.Approve(context.Background(), userID, articleID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		m.repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestArticleService_Withdraw(t *testing.T) {
	authorID := uuid.New()
	articleID := uuid.Must(uuid.NewV7())

	t.Run("author pulls a published article", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, authorID.String()).
			Return(&entity.User{ID: authorID, Role: entity.RoleUser}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPublished}, nil)
		m.repo.On("TransitionStatus", mock.Anything, articleID, entity.StatusPublished, entity.StatusPending).
			Return(true, nil)

		err := svc.Withdraw(context.Background(), authorID, articleID)
		assert.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("already pending is a no-op", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, authorID.String()).
			Return(&entity.User{ID: authorID, Role: entity.RoleUser}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPending}, nil)

		err := svc.Withdraw(context.Background(), authorID, articleID)
		assert.NoError(t, err)
		m.repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("even an admin cannot withdraw someone else's article", func(t *testing.T) {
		m, svc := newTestArticleService()
		adminID := uuid.New()
		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
		m.repo.On("FindByID", mock.Anything, articleID).
			Return(&entity.Article{ID: articleID, AuthorID: authorID, Status: entity.StatusPublished}, nil)

		err := svc.Withdraw(context.Background(), adminID, articleID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestArticleService_Unpublish(t *testing.T) {
	adminID := uuid.New()
	ids := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

	t.Run("manager bulk unpublishes", func(t *testing.T) {
		m, svc := newTestArticleService()
		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleSuperAdmin}, nil)
		m.repo.On("TransitionStatusBatch", mock.Anything, ids, entity.StatusPublished, entity.StatusPending).
			Return(int64(2), nil)

		count, err := svc.Unpublish(context.Background(), adminID, ids)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		m, svc := newTestArticleService()
		userID := uuid.New()
		m.users.On("FindByID", mock.Anything, userID.String()).
			Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)

		_, err := svc.Unpublish(context.Background(), userID, ids)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		m.repo.AssertNotCalled(t, "TransitionStatusBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestArticleService_ListPending(t *testing.T) {
	adminID := uuid.New()

	t.Run("manager sees the queue", func(t *testing.T) {
		m, svc := newTestArticleService()
		oldest := uuid.Must(uuid.NewV7())
		newest := uuid.Must(uuid.NewV7())

		m.users.On("FindByID", mock.Anything, adminID.String()).
			Return(&entity.User{ID: adminID, Role: entity.RoleAdmin}, nil)
		m.repo.On("FindPending", mock.Anything).Return([]*entity.Article{
			{ID: oldest, Status: entity.StatusPending, Author: entity.User{Username: "a"}},
			{ID: newest, Status: entity.StatusPending, Author: entity.User{Username: "b"}},
		}, nil)
		m.engagement.On("SummaryBatch", mock.Anything, []uuid.UUID{oldest, newest}).
			Return(map[uuid.UUID]engDto.SummaryResponse{}, nil)

		queue, err := svc.ListPending(context.Background(), adminID)
		assert.NoError(t, err)
		assert.Len(t, queue, 2)
		assert.Equal(t, oldest.String(), queue[0].ID)
	})

	t.Run("plain user denied, not shown an empty queue", func(t *testing.T) {
		m, svc := newTestArticleService()
		userID := uuid.New()
		m.users.On("FindByID", mock.Anything, userID.String()).
			Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)

		queue, err := svc.ListPending(context.Background(), userID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.Nil(t, queue)
		m.repo.AssertNotCalled(t, "FindPending", mock.Anything)
	})
}
