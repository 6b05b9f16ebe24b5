// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"walletgate/internal/audit"
	"walletgate/internal/gateway"
	"walletgate/internal/identity"
	"walletgate/internal/platform/config"
	"walletgate/internal/platform/httpserver"
	"walletgate/internal/platform/logger"
	"walletgate/internal/platform/metrics"
	redisplatform "walletgate/internal/platform/redis"
	"walletgate/internal/ratelimit"
	"walletgate/internal/session"
	"walletgate/internal/token"
	"walletgate/internal/token/revocation"
	httptransport "walletgate/internal/transport/http"
	"walletgate/internal/wallet"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.FederatedVerificationKey == "" {
		return errors.New("FEDERATED_VERIFICATION_KEY is required")
	}
	verifier, err := token.NewFederatedVerifier(cfg.FederatedVerificationKey, cfg.FederatedIssuer, cfg.FederatedAudience)
	if err != nil {
		return err
	}
	codec := token.NewCodec(cfg.SessionSigningKey)

	var (
		identities  identity.Store
		wallets     wallet.Store
		revocations revocation.List
		limitStore  ratelimit.Store
	)

	if cfg.DatabaseURL != "" {
		pool, perr := pgxpool.New(ctx, cfg.DatabaseURL)
		if perr != nil {
			return perr
		}
		defer pool.Close()

		identityStore := identity.NewPostgres(pool)
		walletStore := wallet.NewPostgres(pool)
		if err := identityStore.Migrate(ctx); err != nil {
			return err
		}
		if err := walletStore.Migrate(ctx); err != nil {
			return err
		}
		identities = identityStore
		wallets = walletStore
		log.Info("using postgres stores")
	} else {
		identities = identity.NewInMemoryStore()
		wallets = wallet.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, identities and wallets are in-memory")
	}

	rdb, err := redisplatform.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		identities = identity.NewCachedStore(identities, rdb.Client, log)
		revocations = revocation.NewRedisList(rdb.Client)
		limitStore = ratelimit.NewRedisStore(rdb.Client)
		log.Info("using redis for revocation, identity cache, and rate limiting")
	} else {
		revocations = revocation.NewInMemoryList()
		limitStore = ratelimit.NewInMemoryStore()
	}

	m := metrics.New()
	provisioner := wallet.NewProvisioner(wallets, log)
	resolver := identity.NewResolver(identities, provisioner)
	issuer := session.NewIssuer(codec, cfg.SessionTTL, log)

	publisher := audit.NewPublisher(audit.NewInMemoryStore(), audit.WithAsyncBuffer(256))
	defer publisher.Close()

	gw := gateway.New(codec, verifier, resolver, issuer, revocations, publisher, m, log)
	auth := httptransport.NewAuthHandler(identities, provisioner, revocations, publisher, m, issuer.TTL(), log)
	limiter := ratelimit.New(limitStore, cfg.RateLimitPerMinute, time.Minute, log)

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(gw, auth, limiter))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting walletgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
