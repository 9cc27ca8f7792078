package lookup

import (
	"context"

	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/pkg/ordered"
)

//go:generate mockgen -source internal/application/lookup/source.go -destination=internal/application/lookup/source_mock_test.go -package=lookup

// Source is one step of the lookup chain. A miss is (User{}, false, nil);
// a non-nil error means the source itself failed.
type Source interface {
	Name() string
	Fetch(ctx context.Context, id int64) (domain.User, bool, error)
}

// Writer is implemented by sources that can be backfilled.
type Writer interface {
	Store(ctx context.Context, user domain.User) error
}

type WritableSource interface {
	Source
	Writer
}

// Chain is the ordered list of sources, highest priority first.
type Chain = ordered.List[Source]

func NewChain(sources ...Source) (*Chain, error) {
	return ordered.New(sources...)
}
