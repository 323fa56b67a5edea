package marketplace

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Mock is an in-memory Client for tests and local development.
type Mock struct {
	mu        sync.Mutex
	Listings  map[uuid.UUID]Listing
	Initiated []InitiateParams

	InitiateErr error
	ListingErr  error
}

// GetListing returns the registered listing or ErrListingNotFound.
func (m *Mock) GetListing(_ context.Context, id uuid.UUID) (Listing, error) {
	if m.ListingErr != nil {
		return Listing{}, m.ListingErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.Listings[id]
	if !ok {
		return Listing{}, ErrListingNotFound
	}
	return listing, nil
}

// InitiateTransaction records the call and returns a deterministic
// transaction derived from the params.
func (m *Mock) InitiateTransaction(_ context.Context, params InitiateParams) (Transaction, error) {
	if m.InitiateErr != nil {
		return Transaction{}, m.InitiateErr
	}
	m.mu.Lock()
	m.Initiated = append(m.Initiated, params)
	m.mu.Unlock()
	return Transaction{
		ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte(params.ListingID.String())),
		ProcessAlias:   params.ProcessAlias,
		LastTransition: params.Transition,
	}, nil
}
