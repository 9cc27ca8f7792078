package cache

import (
	"context"
	"strconv"

	"github.com/TemirB/patterns/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source internal/cache/cache.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	Fetch(ctx context.Context, id int64) (domain.User, bool, error)
	RecentUserIDs(ctx context.Context, limit int) ([]int64, error)
}

// Key is the string key a user is cached under.
func Key(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

// LRU is the in-process cache step of the lookup chain.
type LRU struct {
	size int
	lru  *lru.Cache[string, domain.User]
}

func New(size int) (*LRU, error) {
	c, err := lru.New[string, domain.User](size)
	if err != nil {
		return nil, err
	}
	return &LRU{
		size: size,
		lru:  c,
	}, nil
}

func (c *LRU) Name() string { return "cache" }

// Warm preloads the most recent users. Failures only leave gaps.
func (c *LRU) Warm(ctx context.Context, repo repo) {
	ids, err := repo.RecentUserIDs(ctx, c.size)
	if err != nil {
		return
	}
	for _, id := range ids {
		if u, ok, err := repo.Fetch(ctx, id); err == nil && ok {
			c.lru.Add(Key(u.ID()), u)
		}
	}
}

func (c *LRU) Fetch(_ context.Context, id int64) (domain.User, bool, error) {
	u, ok := c.lru.Get(Key(id))
	return u, ok, nil
}

func (c *LRU) Store(_ context.Context, user domain.User) error {
	c.lru.Add(Key(user.ID()), user)
	return nil
}

func (c *LRU) Len() int { return c.lru.Len() }
