package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"walletgate/internal/audit"
	"walletgate/internal/device"
	"walletgate/internal/identity"
	"walletgate/internal/platform/metrics"
	"walletgate/internal/token/revocation"
	"walletgate/internal/wallet"
	dErrors "walletgate/pkg/domain-errors"
	"walletgate/pkg/platform/httputil"
	"walletgate/pkg/platform/sentinel"
	"walletgate/pkg/requestcontext"
)

// AuthHandler serves the account endpoints that run after (or alongside) the
// gateway's policy checks.
type AuthHandler struct {
	identities  identity.Store
	wallets     identity.WalletProvisioner
	revocations revocation.List
	audits      *audit.Publisher
	metrics     *metrics.Metrics
	sessionTTL  time.Duration
	logger      *slog.Logger
}

// NewAuthHandler constructs the handler. sessionTTL bounds how long a revoked
// token id is remembered; pass the issuer's configured lifetime.
func NewAuthHandler(
	identities identity.Store,
	wallets identity.WalletProvisioner,
	revocations revocation.List,
	audits *audit.Publisher,
	m *metrics.Metrics,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		identities:  identities,
		wallets:     wallets,
		revocations: revocations,
		audits:      audits,
		metrics:     m,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

type createUserRequest struct {
	EVMAddress string `json:"evmAddress"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
}

type userResponse struct {
	ID               int64  `json:"id"`
	EVMAddress       string `json:"evmAddress"`
	Subject          string `json:"subject"`
	CustodialAddress string `json:"custodialAddress,omitempty"`
}

// handleCreateUser enrolls the verified federated subject under the EVM
// address it supplies. Runs behind the creation policy, so the subject in the
// context is always provider-verified.
func (h *AuthHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)
	if subject == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no verified subject on request"))
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !wallet.IsHexAddress(req.EVMAddress) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "evmAddress must be a 0x-prefixed 40-hex-digit address"))
		return
	}

	ident, err := h.identities.Create(ctx, req.EVMAddress, subject)
	if errors.Is(err, sentinel.ErrConflict) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "account already exists"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "create identity failed", "subject", subject, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "create identity", err))
		return
	}

	custodial, err := h.wallets.Provision(ctx, ident.Address)
	if err != nil {
		h.logger.ErrorContext(ctx, "provision wallet failed", "user_id", ident.ID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "provision wallet", err))
		return
	}

	h.metrics.IncrementUsersCreated()
	h.metrics.IncrementWalletsProvisioned()
	h.emit(r, audit.Event{
		Action:   audit.ActionCreateUser,
		Decision: audit.DecisionAllow,
		Subject:  subject,
		UserID:   ident.ID,
	})

	httputil.WriteJSON(w, http.StatusCreated, userResponse{
		ID:               ident.ID,
		EVMAddress:       ident.Address,
		Subject:          ident.Subject,
		CustodialAddress: custodial,
	})
}

type meResponse struct {
	userResponse
	Device string `json:"device"`
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident := requestcontext.Identity(ctx)
	if ident == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no identity on request"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, meResponse{
		userResponse: userResponse{
			ID:               ident.ID,
			EVMAddress:       ident.Address,
			Subject:          ident.Subject,
			CustodialAddress: requestcontext.CustodialAddress(ctx),
		},
		Device: device.ParseUserAgent(requestcontext.UserAgent(ctx)),
	})
}

// handleRevoke invalidates the session token this request authenticated with.
// The jti is remembered for the full session lifetime, an upper bound on the
// token's remaining validity.
func (h *AuthHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jti := requestcontext.SessionJTI(ctx)
	if jti == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no session id on request"))
		return
	}

	if err := h.revocations.Revoke(ctx, jti, h.sessionTTL); err != nil {
		h.logger.ErrorContext(ctx, "revoke session failed", "jti", jti, "error", err)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "revoke session", err))
		return
	}

	event := audit.Event{
		Action:   audit.ActionRevokeToken,
		Decision: audit.DecisionAllow,
	}
	if ident := requestcontext.Identity(ctx); ident != nil {
		event.Subject = ident.Subject
		event.UserID = ident.ID
	}
	h.emit(r, event)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "TOKEN_REVOKED"})
}

func (h *AuthHandler) emit(r *http.Request, event audit.Event) {
	event.Device = device.ParseUserAgent(r.UserAgent())
	if err := h.audits.Emit(r.Context(), event); err != nil {
		h.logger.Warn("audit emit failed", "action", event.Action, "error", err)
	}
}
