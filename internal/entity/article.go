package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleStatus is the article's publication state. Draft exists only
// transiently before the first persist: creation decides the initial
// state atomically, so only Pending and Published are ever stored.
type ArticleStatus string

const (
	StatusPending   ArticleStatus = "pending"
	StatusPublished ArticleStatus = "published"
)

// allowedTransitions is the publication state machine. Anything not in
// the table is rejected; same-state "transitions" are handled by the
// callers as idempotent no-ops.
var allowedTransitions = map[ArticleStatus]map[ArticleStatus]bool{
	StatusPending:   {StatusPublished: true},
	StatusPublished: {StatusPending: true},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to ArticleStatus) bool {
	return allowedTransitions[from][to]
}

type Article struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     User          `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Title      string        `gorm:"size:200;not null" json:"title"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	ImageURL   *string       `gorm:"type:text" json:"image_url,omitempty"`
	CategoryID *uuid.UUID    `gorm:"type:uuid" json:"category_id,omitempty"`
	Category   *Category     `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Status     ArticleStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	// Rating caches the average of the article's star ratings, rounded
	// to 2 decimals; 0 when no ratings exist. Written only by the
	// rating path.
	Rating    float64   `gorm:"not null;default:0" json:"rating"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// VisibleTo implements the visibility policy: a published article is
// visible to everyone; an unpublished one only to its author and to
// moderators. user is nil for guests. Evaluated on every read since
// publication state changes concurrently with reads.
func (a *Article) VisibleTo(user *User) bool {
	if a.IsPublished() {
		return true
	}
	if user == nil {
		return false
	}
	return user.ID == a.AuthorID || user.CanManageArticles()
}
