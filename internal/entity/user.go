package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the user's platform role. Role and the banned flag are
// orthogonal: a banned admin keeps admin privileges but loses the right
// to mutate anything.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:user" json:"role"`
	Banned       bool      `gorm:"not null;default:false" json:"banned"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanManageArticles reports whether the user may moderate articles:
// approve, unpublish, edit or delete content they do not own.
func (u *User) CanManageArticles() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// CanAssignAdmins reports whether the user may promote or demote admins.
func (u *User) CanAssignAdmins() bool {
	return u.Role == RoleSuperAdmin
}

// CanBanUsers reports whether the user may ban or unban other users.
// Mirrors CanManageArticles: any moderator can ban.
func (u *User) CanBanUsers() bool {
	return u.CanManageArticles()
}

func (u *User) IsBanned() bool {
	return u.Banned
}
