package domain

import (
	"context"
)

// UserRepository is a store of users addressed by id. A missing user is
// reported as ok == false, not as an error.
type UserRepository interface {
	Fetch(ctx context.Context, id int64) (User, bool, error)
	Store(ctx context.Context, user User) error
	RecentUserIDs(ctx context.Context, limit int) ([]int64, error)
}
