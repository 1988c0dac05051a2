package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizapp/quizapp-backend/internal/model"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email_id, user_name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		u.EmailID, u.UserName, u.PasswordHash,
	).Scan(&u.CreatedAt)
}

// GetByEmail retrieves a user by email ID. Returns pgx.ErrNoRows when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, emailID string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT email_id, user_name, password_hash, created_at
		 FROM users WHERE email_id = $1`, emailID,
	).Scan(&u.EmailID, &u.UserName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByUserName retrieves a user by username. Returns pgx.ErrNoRows when absent.
func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT email_id, user_name, password_hash, created_at
		 FROM users WHERE user_name = $1`, userName,
	).Scan(&u.EmailID, &u.UserName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUserName changes a user's display handle.
func (r *UserRepository) UpdateUserName(ctx context.Context, emailID, userName string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET user_name = $1
		 WHERE email_id = $2
		 RETURNING email_id, user_name, password_hash, created_at`,
		userName, emailID,
	).Scan(&u.EmailID, &u.UserName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
