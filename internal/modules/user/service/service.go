package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pressroom/internal/entity"
	"pressroom/internal/modules/user/dto"
	"pressroom/internal/modules/user/repository"
	"pressroom/pkg/apperror"
)

type UserService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]*dto.UserResponse, error)
	Promote(ctx context.Context, actorID, userID uuid.UUID) (*dto.UserResponse, error)
	Demote(ctx context.Context, actorID, userID uuid.UUID) (*dto.UserResponse, error)
	ToggleBan(ctx context.Context, actorID, userID uuid.UUID) (*dto.BanResponse, error)
}

type userService struct {
	repo     repository.UserRepository
	secret   string
	tokenTTL time.Duration
}

func NewUserService(repo repository.UserRepository) UserService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &userService{
		repo:     repo,
		secret:   secret,
		tokenTTL: ttl,
	}
}

func (s *userService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Self-registration always produces a plain user; roles are assigned
	// by a super admin afterwards.
	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

func (s *userService) ListUsers(ctx context.Context, actorID uuid.UUID) ([]*dto.UserResponse, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAssignAdmins() {
		return nil, fmt.Errorf("only a super admin can view users: %w", apperror.ErrForbidden)
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp := dto.NewUserResponse(u)
		out = append(out, &resp)
	}
	return out, nil
}

// Promote assigns the admin role. Promoting a user who is already an
// admin is a no-op that still reports success.
func (s *userService) Promote(ctx context.Context, actorID, userID uuid.UUID) (*dto.UserResponse, error) {
	return s.setRole(ctx, actorID, userID, entity.RoleAdmin)
}

// Demote returns an admin to the plain user role; idempotent like Promote.
func (s *userService) Demote(ctx context.Context, actorID, userID uuid.UUID) (*dto.UserResponse, error) {
	return s.setRole(ctx, actorID, userID, entity.RoleUser)
}

func (s *userService) setRole(ctx context.Context, actorID, userID uuid.UUID, role entity.Role) (*dto.UserResponse, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAssignAdmins() {
		return nil, fmt.Errorf("only a super admin can assign roles: %w", apperror.ErrForbidden)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != role {
		user.Role = role
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ToggleBan flips the target's banned flag and returns the new state.
// Role and ban are orthogonal: banning does not strip the role.
func (s *userService) ToggleBan(ctx context.Context, actorID, userID uuid.UUID) (*dto.BanResponse, error) {
	actor, err := s.findActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanBanUsers() {
		return nil, fmt.Errorf("only a moderator can ban users: %w", apperror.ErrForbidden)
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Banned = !user.Banned
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.BanResponse{UserID: user.ID.String(), Banned: user.Banned}, nil
}

func (s *userService) findActor(ctx context.Context, actorID uuid.UUID) (*entity.User, error) {
	actor, err := s.repo.FindByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("actor not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}
	return actor, nil
}

func (s *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
