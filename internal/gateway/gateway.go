// Package gateway implements the dual-credential authentication state
// machine. Every guarded route runs one evaluation which either rejects the
// request with a stable reason code or attaches the authenticated identity to
// the request context and passes control downstream.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"walletgate/internal/audit"
	"walletgate/internal/device"
	"walletgate/internal/identity"
	"walletgate/internal/platform/metrics"
	"walletgate/internal/session"
	"walletgate/internal/token"
	"walletgate/internal/token/revocation"
	"walletgate/pkg/platform/httputil"
	"walletgate/pkg/platform/sentinel"
	"walletgate/pkg/requestcontext"
)

var tracer = otel.Tracer("walletgate/internal/gateway")

// Gateway evaluates credentials against route policies. All collaborators are
// fixed at construction; evaluation itself holds no mutable state.
type Gateway struct {
	sessions    *token.Codec
	federated   *token.FederatedVerifier
	resolver    *identity.Resolver
	issuer      *session.Issuer
	revocations revocation.List
	audits      *audit.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New constructs a Gateway. The metrics handle may be nil.
func New(
	sessions *token.Codec,
	federated *token.FederatedVerifier,
	resolver *identity.Resolver,
	issuer *session.Issuer,
	revocations revocation.List,
	audits *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		sessions:    sessions,
		federated:   federated,
		resolver:    resolver,
		issuer:      issuer,
		revocations: revocations,
		audits:      audits,
		metrics:     m,
		logger:      logger,
	}
}

// Evaluate runs the ordered decision procedure for one request under the
// given policy. First match wins; later checks never run once a rejection
// fires.
func (g *Gateway) Evaluate(ctx context.Context, r *http.Request, policy RoutePolicy) Decision {
	cred := extractCredential(r)

	switch {
	case cred.Multiple:
		return deny(ReasonMultipleTokens)
	case cred.Kind == KindNone:
		return deny(ReasonNoToken)
	case cred.BadFormat:
		return deny(ReasonInvalidTokenFormat)
	}

	userAgent := r.UserAgent()
	if userAgent == "" {
		return deny(ReasonUserAgentRequired)
	}

	switch policy {
	case PolicyCreation, PolicyMint:
		return g.evaluateFederated(ctx, cred, policy, userAgent)
	default:
		return g.evaluateSession(ctx, cred, userAgent)
	}
}

// evaluateFederated handles the two routes that accept only provider-issued
// credentials. A session token on either of them means the caller is already
// enrolled and is using the wrong door.
func (g *Gateway) evaluateFederated(ctx context.Context, cred Credential, policy RoutePolicy, userAgent string) Decision {
	if cred.Kind == KindSession {
		return deny(ReasonAlreadyAUser)
	}

	claims, err := g.federated.Verify(cred.Token)
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			return deny(ReasonFederatedExpired)
		}
		return deny(ReasonFederatedInvalid)
	}

	if policy == PolicyCreation {
		return Decision{Authorized: true, Subject: claims.Subject}
	}

	ident, err := g.resolver.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return deny(ReasonUserNotFound)
		}
		g.logger.Error("identity lookup failed during mint", "subject", claims.Subject, "error", err)
		return deny(ReasonUpstreamFailure)
	}

	minted, err := g.issuer.Issue(ident, userAgent)
	if err != nil {
		g.logger.Error("session mint failed", "user_id", ident.ID, "error", err)
		return deny(ReasonUpstreamFailure)
	}

	return Decision{
		Authorized:  true,
		Identity:    ident,
		Subject:     ident.Subject,
		MintedToken: minted,
	}
}

// evaluateSession handles every protected route. The token's own claims carry
// the binding checks; the store is consulted only to confirm the identity
// still exists under the same subject and address pair.
func (g *Gateway) evaluateSession(ctx context.Context, cred Credential, userAgent string) Decision {
	if cred.Kind == KindFederated {
		return deny(ReasonRouteNeedsSession)
	}

	claims, err := g.sessions.Verify(cred.Token)
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			return deny(ReasonSessionExpired)
		}
		return deny(ReasonInvalidToken)
	}

	revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		g.logger.Error("revocation check failed", "jti", claims.ID, "error", err)
		return deny(ReasonUpstreamFailure)
	}
	if revoked {
		return deny(ReasonSessionRevoked)
	}

	if claims.UserAgent != userAgent {
		return deny(ReasonUserAgentMismatch)
	}

	ident, err := g.resolver.FindByCreationKey(ctx, claims.Subject, claims.Address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return deny(ReasonUserNotFound)
		}
		g.logger.Error("identity lookup failed", "subject", claims.Subject, "error", err)
		return deny(ReasonUpstreamFailure)
	}

	custodial, err := g.resolver.ProvisionWallet(ctx, ident.Address)
	if err != nil {
		g.logger.Error("wallet provisioning failed", "user_id", ident.ID, "error", err)
		return deny(ReasonUpstreamFailure)
	}

	return Decision{
		Authorized:       true,
		Identity:         ident,
		CustodialAddress: custodial,
		Subject:          ident.Subject,
		SessionJTI:       claims.ID,
	}
}

// mintResponse is the terminal 200 body of the minting route.
type mintResponse struct {
	Message      string       `json:"message"`
	TokenDetails tokenDetails `json:"tokenDetails"`
}

type tokenDetails struct {
	AccessToken string    `json:"accessToken"`
	Timestamp   time.Time `json:"timestamp"`
	UserAgent   string    `json:"userAgent"`
}

// Require returns middleware enforcing the policy on every request. Rejected
// requests are answered here and never reach the wrapped handler. The mint
// policy is terminal on success as well: the minted token is the response.
func (g *Gateway) Require(policy RoutePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "gateway.evaluate",
				trace.WithAttributes(attribute.String("auth.policy", policy.String())))

			decision := g.Evaluate(ctx, r, policy)
			span.SetAttributes(
				attribute.Bool("auth.authorized", decision.Authorized),
				attribute.String("auth.reason", string(decision.Reason)),
			)
			span.End()

			g.record(ctx, policy, r.UserAgent(), decision)

			if !decision.Authorized {
				httputil.WriteReason(w, decision.Reason.Status(), string(decision.Reason))
				return
			}

			if policy == PolicyMint {
				g.metrics.IncrementTokensIssued()
				httputil.WriteJSON(w, http.StatusOK, mintResponse{
					Message: "ACCESS_TOKEN_CREATED",
					TokenDetails: tokenDetails{
						AccessToken: bearerPrefix + decision.MintedToken,
						Timestamp:   time.Now().UTC(),
						UserAgent:   r.UserAgent(),
					},
				})
				return
			}

			ctx = requestcontext.WithUserAgent(ctx, r.UserAgent())
			ctx = requestcontext.WithSubject(ctx, decision.Subject)
			if decision.Identity != nil {
				ctx = requestcontext.WithIdentity(ctx, decision.Identity)
			}
			if decision.CustodialAddress != "" {
				ctx = requestcontext.WithCustodialAddress(ctx, decision.CustodialAddress)
			}
			if decision.SessionJTI != "" {
				ctx = requestcontext.WithSessionJTI(ctx, decision.SessionJTI)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Gateway) record(ctx context.Context, policy RoutePolicy, userAgent string, decision Decision) {
	outcome := audit.DecisionAllow
	if !decision.Authorized {
		outcome = audit.DecisionDeny
	}
	g.metrics.RecordDecision(policy.String(), outcome)

	action := audit.ActionAuthenticate
	if policy == PolicyMint {
		action = audit.ActionIssueToken
	}
	event := audit.Event{
		Action:   action,
		Policy:   policy.String(),
		Decision: outcome,
		Reason:   string(decision.Reason),
		Subject:  decision.Subject,
		Device:   device.ParseUserAgent(userAgent),
	}
	if decision.Identity != nil {
		event.UserID = decision.Identity.ID
	}
	if err := g.audits.Emit(ctx, event); err != nil {
		g.logger.Warn("audit emit failed", "action", action, "error", err)
	}
}
