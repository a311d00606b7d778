package service

import (
	"context"

	"github.com/google/uuid"

	"pressroom/internal/entity"
	"pressroom/internal/modules/article/dto"
)

func (s *articleService) buildResponse(ctx context.Context, article *entity.Article, withContent bool) *dto.ArticleResponse {
	resp := &dto.ArticleResponse{
		ID:    article.ID.String(),
		Title: article.Title,
		Author: dto.AuthorRef{
			ID:       article.AuthorID.String(),
			Username: article.Author.Username,
		},
		Status:    article.Status,
		ImageURL:  article.ImageURL,
		Rating:    article.Rating,
		Views:     article.Views,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}

	if withContent {
		resp.Content = article.Content
	}

	if article.Category != nil {
		resp.Category = &dto.CategoryRef{
			ID:   article.Category.ID.String(),
			Name: article.Category.Name,
			Slug: article.Category.Slug,
		}
	}

	if summary, err := s.engagement.Summary(ctx, article.ID); err == nil {
		resp.Likes = summary.Likes
		resp.Dislikes = summary.Dislikes
		resp.LikeRatioPercent = summary.LikeRatioPercent
	}

	return resp
}

func (s *articleService) buildResponses(ctx context.Context, articles []*entity.Article, withContent bool) []*dto.ArticleResponse {
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	summaries, err := s.engagement.SummaryBatch(ctx, ids)

	out := make([]*dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp := &dto.ArticleResponse{
			ID:    a.ID.String(),
			Title: a.Title,
			Author: dto.AuthorRef{
				ID:       a.AuthorID.String(),
				Username: a.Author.Username,
			},
			Status:    a.Status,
			ImageURL:  a.ImageURL,
			Rating:    a.Rating,
			Views:     a.Views,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
		if withContent {
			resp.Content = a.Content
		}
		if a.Category != nil {
			resp.Category = &dto.CategoryRef{
				ID:   a.Category.ID.String(),
				Name: a.Category.Name,
				Slug: a.Category.Slug,
			}
		}
		if err == nil {
			summary := summaries[a.ID]
			resp.Likes = summary.Likes
			resp.Dislikes = summary.Dislikes
			resp.LikeRatioPercent = summary.LikeRatioPercent
		}
		out = append(out, resp)
	}
	return out
}
