package repository

import (
	"context"
	"fmt"

	"ecomstore/internal/model"
)

const userColumns = "id, name, email, password, role, created_at"

// CreateUser inserts u and fills in its ID and CreatedAt.
func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	err := r.getExecutor(ctx).QueryRow(ctx,
		"INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id int) (*model.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *Repository) scanUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.getExecutor(ctx).QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translateError(err))
	}
	return &u, nil
}
