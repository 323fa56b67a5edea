package marketplace

import (
	"context"

	"github.com/google/uuid"
)

// Client talks to the hosted marketplace backend. Implementations must be
// safe for concurrent use.
type Client interface {
	GetListing(ctx context.Context, id uuid.UUID) (Listing, error)
	InitiateTransaction(ctx context.Context, params InitiateParams) (Transaction, error)
}
