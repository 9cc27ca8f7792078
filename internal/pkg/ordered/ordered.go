// Package ordered keeps a priority list of uniquely named entries.
package ordered

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicate = errors.New("duplicate name")
	ErrUnknown   = errors.New("unknown name")
)

type Named interface {
	Name() string
}

// List is safe for concurrent use. Readers get a copy via Snapshot, so
// mutations never affect a pass that is already running.
type List[T Named] struct {
	mu    sync.RWMutex
	items []T
}

func New[T Named](items ...T) (*List[T], error) {
	l := &List[T]{items: make([]T, 0, len(items))}
	for _, it := range items {
		if err := l.Append(it); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List[T]) Append(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(item.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, item.Name())
	}
	l.items = append(l.items, item)
	return nil
}

// Insert puts item at pos; pos is clamped to [0, Len()].
func (l *List[T]) Insert(pos int, item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(item.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, item.Name())
	}
	pos = clamp(pos, len(l.items))
	l.items = append(l.items, item)
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = item
	return nil
}

func (l *List[T]) Remove(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(name)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Move changes the rank of an existing entry.
func (l *List[T]) Move(name string, pos int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	item := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)

	pos = clamp(pos, len(l.items))
	l.items = append(l.items, item)
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = item
	return nil
}

func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.items))
	for _, it := range l.items {
		names = append(names, it.Name())
	}
	return names
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List[T]) indexOf(name string) int {
	for i, it := range l.items {
		if it.Name() == name {
			return i
		}
	}
	return -1
}

func clamp(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}
