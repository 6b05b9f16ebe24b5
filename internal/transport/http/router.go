// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services so transport concerns stay isolated from business logic.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"walletgate/internal/gateway"
	"walletgate/internal/ratelimit"
	"walletgate/pkg/platform/httputil"
)

// NewRouter wires all public endpoints behind the rate limiter and the
// authentication gateway. Route policies are assigned here and nowhere else.
func NewRouter(gw *gateway.Gateway, auth *AuthHandler, limiter *ratelimit.Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)

		r.With(gw.Require(gateway.PolicyCreation)).
			Post("/auth/create", auth.handleCreateUser)

		// Terminal: the gateway itself answers with the minted token, so the
		// downstream handler only backstops a misconfiguration.
		r.With(gw.Require(gateway.PolicyMint)).
			Post("/auth", handleMintFallthrough)

		r.Group(func(r chi.Router) {
			r.Use(gw.Require(gateway.PolicySession))
			r.Get("/auth/me", auth.handleMe)
			r.Post("/auth/revoke", auth.handleRevoke)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleMintFallthrough(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
}
