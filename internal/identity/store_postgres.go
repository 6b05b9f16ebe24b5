package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"walletgate/pkg/platform/sentinel"
)

// PostgresStore persists identities in the user_account table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed identity store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the user_account table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_account (
			id          BIGSERIAL PRIMARY KEY,
			evm_address TEXT NOT NULL UNIQUE,
			sub         TEXT NOT NULL UNIQUE,
			name        TEXT,
			email       TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate user_account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindBySubject(ctx context.Context, subject string) (*Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, evm_address, sub, COALESCE(name, ''), COALESCE(email, ''), created_at
		FROM user_account
		WHERE sub = $1`, subject)
	return scanIdentity(row, sentinel.ErrNotFound)
}

func (s *PostgresStore) FindByCreationKey(ctx context.Context, subject, address string) (*Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, evm_address, sub, COALESCE(name, ''), COALESCE(email, ''), created_at
		FROM user_account
		WHERE sub = $1 AND evm_address = $2`, subject, address)
	return scanIdentity(row, sentinel.ErrNotFound)
}

func (s *PostgresStore) Create(ctx context.Context, address, subject string) (*Identity, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_account (evm_address, sub)
		VALUES ($1, $2)
		RETURNING id, evm_address, sub, COALESCE(name, ''), COALESCE(email, ''), created_at`,
		address, subject)

	ident, err := scanIdentity(row, sentinel.ErrNotFound)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("identity already registered: %w", sentinel.ErrConflict)
		}
		return nil, err
	}
	return ident, nil
}

func scanIdentity(row pgx.Row, notFound error) (*Identity, error) {
	var ident Identity
	err := row.Scan(&ident.ID, &ident.Address, &ident.Subject, &ident.Name, &ident.Email, &ident.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("identity: %w", notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	return &ident, nil
}
