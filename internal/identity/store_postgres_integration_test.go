//go:build integration

package identity_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"walletgate/internal/identity"
	"walletgate/pkg/platform/sentinel"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *identity.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("walletgate"),
		tcpostgres.WithUsername("walletgate"),
		tcpostgres.WithPassword("walletgate"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.pool = pool

	s.store = identity.NewPostgres(pool)
	s.Require().NoError(s.store.Migrate(ctx))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE user_account RESTART IDENTITY")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	created, err := s.store.Create(ctx, address, subject)
	s.Require().NoError(err)
	s.Equal(address, created.Address)
	s.Equal(subject, created.Subject)
	s.NotZero(created.ID)

	found, err := s.store.FindBySubject(ctx, subject)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)

	found, err = s.store.FindByCreationKey(ctx, subject, address)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.store.FindByCreationKey(ctx, subject, custodial)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueConstraints() {
	ctx := context.Background()

	_, err := s.store.Create(ctx, address, subject)
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, address, "did:privy:other")
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.Create(ctx, custodial, subject)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestConcurrentCreateSingleWinner() {
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.store.Create(ctx, address, subject)
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			s.Require().ErrorIs(err, sentinel.ErrConflict)
		}
	}
	s.Equal(1, created)
}
