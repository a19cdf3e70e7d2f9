package ports

import (
	"context"

	"github.com/casthost/azuracast-provisioner/internal/domain"
)

// BindingCache stores the last known account-to-remote-resource mapping as an
// optional fast path. The live user/role listings stay authoritative; a cache
// miss is answered with domain.ErrBindingNotCached, never treated as failure.
type BindingCache interface {
	Get(ctx context.Context, id domain.AccountID) (domain.Binding, error)
	Put(ctx context.Context, id domain.AccountID, binding domain.Binding) error
	Delete(ctx context.Context, id domain.AccountID) error
}
