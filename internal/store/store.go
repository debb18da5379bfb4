package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type Store interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	CreatePartial(ctx context.Context, r CreatePartialRequest) (User, error)
	MergeUpdate(ctx context.Context, r MergeUpdateRequest) error
}

type CreatePartialRequest struct {
	Email     string
	Provider  string
	CreatedAt time.Time
}

type MergeUpdateRequest struct {
	Email   string
	Profile Profile
}
