package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"walletgate/pkg/platform/sentinel"
)

// PostgresStore persists wallets in the user_wallets table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed wallet store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the user_wallets table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_wallets (
			id                BIGSERIAL PRIMARY KEY,
			evm_address       TEXT NOT NULL UNIQUE,
			custodial_address TEXT NOT NULL,
			pvt_key           TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate user_wallets: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, ownerAddress string) (*Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, evm_address, custodial_address, pvt_key, created_at
		FROM user_wallets
		WHERE evm_address = $1`, ownerAddress)

	var rec Record
	err := row.Scan(&rec.ID, &rec.OwnerAddress, &rec.CustodialAddress, &rec.PrivateKey, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("wallet for %s: %w", ownerAddress, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return &rec, nil
}

// Create inserts the record. ON CONFLICT DO NOTHING turns a concurrent
// duplicate into sentinel.ErrConflict so the caller re-reads the winner's row.
func (s *PostgresStore) Create(ctx context.Context, rec *Record) (*Record, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_wallets (evm_address, custodial_address, pvt_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (evm_address) DO NOTHING
		RETURNING id, evm_address, custodial_address, pvt_key, created_at`,
		rec.OwnerAddress, rec.CustodialAddress, rec.PrivateKey)

	var stored Record
	err := row.Scan(&stored.ID, &stored.OwnerAddress, &stored.CustodialAddress, &stored.PrivateKey, &stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("wallet for %s exists: %w", rec.OwnerAddress, sentinel.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}
	return &stored, nil
}
