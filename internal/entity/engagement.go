package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vote direction values.
const (
	VoteLike    = 1
	VoteDislike = -1
)

// Vote is one like-or-dislike per (user, article) pair. The composite
// unique index is what makes the toggle upsert race-free.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_article" json:"user_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_article" json:"article_id"`
	Article   Article   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Value     int       `gorm:"not null" json:"value"` // +1 or -1
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Rating is one star rating per (user, article) pair, value in [1,5].
// Re-rating overwrites the prior value.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_article" json:"user_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_article" json:"article_id"`
	Article   Article   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Bookmark marks an article as saved; existence is the whole state.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_article" json:"user_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_article" json:"article_id"`
	Article   Article   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
