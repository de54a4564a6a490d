package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user: not found")
	ErrConflict = errors.New("user: username already taken")
)

type User struct {
	ID             uint
	Email          string
	Username       string
	HashedPassword string
	IsActive       bool
}

// Clone returns a copy detached from repository-internal storage.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	Count(ctx context.Context) (int64, error)
}
