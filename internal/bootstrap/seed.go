package bootstrap

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pressroom/internal/entity"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Article{},
		&entity.Vote{},
		&entity.Rating{},
		&entity.Bookmark{},
	)
}

func SeedCategories(db *gorm.DB) error {
	defaultCategories := []entity.Category{
		{Name: "Backend", Slug: "backend"},
		{Name: "Frontend", Slug: "frontend"},
		{Name: "AI", Slug: "ai"},
		{Name: "Cyber Security", Slug: "cyber-security"},
		{Name: "Cyber Sport", Slug: "cyber-sport"},
		{Name: "Game Development", Slug: "game-dev"},
	}

	for _, category := range defaultCategories {
		var count int64
		if err := db.Model(&entity.Category{}).
			Where("slug = ?", category.Slug).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedSuperAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@pressroom.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info().Msg("superadmin already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username:     "admin",
		Email:        "admin@pressroom.local",
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleSuperAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info().
		Str("email", admin.Email).
		Msg("superadmin seeded, change the default password before exposing the server")

	return nil
}
