package override

import (
	"context"

	"github.com/rs/zerolog"
)

// Storage loads the override table from a backing store.
type Storage interface {
	Load(ctx context.Context) (Table, error)
}

// Service resolves the effective override table. Pricing must never fail
// because the override store is down, so Resolve degrades from cache to
// Postgres to the in-code fallback.
type Service struct {
	Store    Storage
	Cache    *Cache
	Fallback Table
	Logger   zerolog.Logger
}

// Resolve returns the override table to use for a pricing request.
func (s *Service) Resolve(ctx context.Context) Table {
	if s == nil {
		return Default()
	}
	if table, ok, err := s.Cache.Get(ctx); err != nil {
		s.Logger.Warn().Err(err).Msg("override cache read failed")
	} else if ok {
		return table
	}
	if s.Store != nil {
		table, err := s.Store.Load(ctx)
		if err == nil {
			if err := s.Cache.Set(ctx, table); err != nil {
				s.Logger.Warn().Err(err).Msg("override cache write failed")
			}
			return table
		}
		s.Logger.Error().Err(err).Msg("override store load failed, using fallback table")
	}
	if s.Fallback.Empty() {
		return Default()
	}
	return s.Fallback
}

// Sync reloads the table from the store and refreshes the cache. The worker
// runs this on a schedule so admin edits propagate without waiting for the
// cache TTL.
func (s *Service) Sync(ctx context.Context) error {
	if s == nil || s.Store == nil {
		return nil
	}
	table, err := s.Store.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, table); err != nil {
		return err
	}
	s.Logger.Info().
		Int("listings", len(table.ListingProviderPercent)).
		Int("vouchers", len(table.VoucherZeroProvider)).
		Msg("override table synced")
	return nil
}

// Invalidate drops the cached table.
func (s *Service) Invalidate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.Cache.Invalidate(ctx)
}
