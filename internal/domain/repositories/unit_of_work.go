package repositories

import (
	"context"
)

// UnitOfWork groups repository calls into one atomic scope
type UnitOfWork interface {
	// Do executes fn within a transaction carried by the context passed to it.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
