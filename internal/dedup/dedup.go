package dedup

import (
	"context"
	"fmt"
)

// Lookup answers whether a job link is already known to the store,
// committed or staged.
type Lookup interface {
	Exists(ctx context.Context, link string) (bool, error)
}

// Gate filters listings whose canonical link was stored before. The link is
// the only key: the same job reposted under another URL counts as new.
type Gate struct {
	store Lookup
}

func NewGate(store Lookup) *Gate {
	return &Gate{store: store}
}

// IsNew checks the link with an exact, case-sensitive comparison.
func (g *Gate) IsNew(ctx context.Context, link string) (bool, error) {
	exists, err := g.store.Exists(ctx, link)
	if err != nil {
		return false, fmt.Errorf("failed to check job link %q: %w", link, err)
	}
	return !exists, nil
}
