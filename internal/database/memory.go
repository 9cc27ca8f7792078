package database

import (
	"context"
	"sort"
	"sync"

	"github.com/TemirB/patterns/internal/domain"
)

// Memory is an in-process user repository. It stands in for the database in
// the demo and backs the stub user service.
type Memory struct {
	mu    sync.RWMutex
	users map[int64]domain.User
	seq   map[int64]int64
	clock int64
}

func NewMemory(users ...domain.User) *Memory {
	m := &Memory{
		users: make(map[int64]domain.User),
		seq:   make(map[int64]int64),
	}
	for _, u := range users {
		_ = m.Store(context.Background(), u)
	}
	return m
}

func (m *Memory) Name() string { return "repository" }

func (m *Memory) Fetch(_ context.Context, id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *Memory) Store(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock++
	m.users[user.ID()] = user
	m.seq[user.ID()] = m.clock
	return nil
}

// RecentUserIDs returns ids by last write, newest first.
func (m *Memory) RecentUserIDs(_ context.Context, limit int) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return m.seq[ids[i]] > m.seq[ids[j]] })
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

var (
	_ domain.UserRepository = (*Memory)(nil)
	_ domain.UserRepository = (*Repo)(nil)
)
