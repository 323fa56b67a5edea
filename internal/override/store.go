package override

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	kindListing = "listing"
	kindVoucher = "voucher"
)

// Store persists the override table in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// Load reads the full override table.
func (s *Store) Load(ctx context.Context) (Table, error) {
	if s == nil || s.Pool == nil {
		return Table{}, errors.New("override: store not configured")
	}
	rows, err := s.Pool.Query(ctx, `SELECT kind, external_id, percentage FROM commission_overrides`)
	if err != nil {
		return Table{}, fmt.Errorf("load overrides: %w", err)
	}
	defer rows.Close()

	table := Table{
		ListingProviderPercent: map[string]float64{},
		VoucherZeroProvider:    map[string]bool{},
	}
	for rows.Next() {
		var kind, externalID string
		var percentage *float64
		if err := rows.Scan(&kind, &externalID, &percentage); err != nil {
			return Table{}, fmt.Errorf("scan override: %w", err)
		}
		switch kind {
		case kindListing:
			if percentage != nil {
				table.ListingProviderPercent[externalID] = *percentage
			}
		case kindVoucher:
			table.VoucherZeroProvider[externalID] = true
		}
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("load overrides: %w", err)
	}
	return table, nil
}

// UpsertListing sets the forced provider commission for a listing.
func (s *Store) UpsertListing(ctx context.Context, listingID string, percentage float64) error {
	return s.upsert(ctx, kindListing, listingID, &percentage)
}

// UpsertVoucher marks a voucher as waiving the provider commission.
func (s *Store) UpsertVoucher(ctx context.Context, voucherID string) error {
	return s.upsert(ctx, kindVoucher, voucherID, nil)
}

// DeleteListing removes a listing override.
func (s *Store) DeleteListing(ctx context.Context, listingID string) error {
	return s.delete(ctx, kindListing, listingID)
}

// DeleteVoucher removes a voucher override.
func (s *Store) DeleteVoucher(ctx context.Context, voucherID string) error {
	return s.delete(ctx, kindVoucher, voucherID)
}

func (s *Store) upsert(ctx context.Context, kind, externalID string, percentage *float64) error {
	if s == nil || s.Pool == nil {
		return errors.New("override: store not configured")
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return errors.New("override: external id is required")
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO commission_overrides (kind, external_id, percentage)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, external_id) DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = now()
	`, kind, externalID, percentage)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, kind, externalID string) error {
	if s == nil || s.Pool == nil {
		return errors.New("override: store not configured")
	}
	_, err := s.Pool.Exec(ctx, `DELETE FROM commission_overrides WHERE kind = $1 AND external_id = $2`, kind, externalID)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}
