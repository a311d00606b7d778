package dto

import (
	"io"
	"time"

	"pressroom/internal/entity"
)

type CreateArticleInput struct {
	Title      string `form:"title" json:"title" binding:"required,max=200"`
	Content    string `form:"content" json:"content" binding:"required"`
	CategoryID string `form:"category_id" json:"category_id" binding:"required,uuid"`
}

type UpdateArticleInput struct {
	Title      string `form:"title" json:"title" binding:"required,max=200"`
	Content    string `form:"content" json:"content" binding:"required"`
	CategoryID string `form:"category_id" json:"category_id" binding:"required,uuid"`
}

// ImageFile carries an uploaded cover image from the handler to the
// storage collaborator.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

type UnpublishInput struct {
	ArticleIDs []string `json:"article_ids" binding:"required,min=1,dive,uuid"`
}

type ArticleResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	Content          string               `json:"content,omitempty"`
	ImageURL         *string              `json:"image_url,omitempty"`
	Category         *CategoryRef         `json:"category,omitempty"`
	Author           AuthorRef            `json:"author"`
	Status           entity.ArticleStatus `json:"status"`
	Rating           float64              `json:"rating"`
	Views            int64                `json:"views"`
	Likes            int64                `json:"likes"`
	Dislikes         int64                `json:"dislikes"`
	LikeRatioPercent float64              `json:"like_ratio_percent"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type ArticleDetailResponse struct {
	ArticleResponse
	IsBookmarked bool `json:"is_bookmarked"`
	IsPublished  bool `json:"is_published"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UnpublishResponse struct {
	Unpublished int64 `json:"unpublished"`
}
