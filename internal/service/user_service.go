package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quizapp/quizapp-backend/internal/model"
)

// User domain errors.
var (
	ErrEmailExists    = errors.New("email ID already exists")
	ErrUserNameExists = errors.New("user name already exists")
	ErrUserNotFound   = errors.New("user not found")
)

// UserService handles account registration and credential checks.
type UserService struct {
	users UserStore
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

// Signup registers a new account. Both the email ID and the username must be
// unused; the password is stored as a bcrypt hash.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.EmailID); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if _, err := s.users.GetByUserName(ctx, req.UserName); err == nil {
		return nil, ErrUserNameExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check user name: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		EmailID:      req.EmailID,
		UserName:     req.UserName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the account.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, req.EmailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByEmail returns the account for an email ID.
func (s *UserService) GetByEmail(ctx context.Context, emailID string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, emailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// EditProfile changes the account's username. The new handle must be unused.
// Existing quiz and attempt records keep the username they were created
// with; only future quizzes pick up the new prefix.
func (s *UserService) EditProfile(ctx context.Context, emailID, userName string) (*model.User, error) {
	if _, err := s.users.GetByUserName(ctx, userName); err == nil {
		return nil, ErrUserNameExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check user name: %w", err)
	}

	user, err := s.users.UpdateUserName(ctx, emailID, userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user name: %w", err)
	}
	return user, nil
}
