package gateway

import (
	"net/http"

	"walletgate/internal/identity"
)

// Reason is the machine-readable rejection code returned to the client. The
// set is closed: every deny path maps to exactly one of these.
type Reason string

const (
	ReasonNone Reason = ""

	ReasonNoToken            Reason = "NO_TOKEN"
	ReasonMultipleTokens     Reason = "MULTIPLE_TOKENS"
	ReasonInvalidTokenFormat Reason = "INVALID_TOKEN_FORMAT"
	ReasonUserAgentRequired  Reason = "USER_AGENT_REQUIRED"
	ReasonAlreadyAUser       Reason = "ALREADY_A_USER"
	ReasonFederatedExpired   Reason = "FEDERATED_EXPIRED"
	ReasonFederatedInvalid   Reason = "FEDERATED_INVALID"
	ReasonUserNotFound       Reason = "USER_NOT_FOUND"
	ReasonRouteNeedsSession  Reason = "ROUTE_REQUIRES_SESSION"
	ReasonInvalidToken       Reason = "INVALID_TOKEN"
	ReasonSessionExpired     Reason = "SESSION_EXPIRED"
	ReasonSessionRevoked     Reason = "SESSION_REVOKED"
	ReasonUserAgentMismatch  Reason = "USER_AGENT_MISMATCH"
	ReasonUpstreamFailure    Reason = "UPSTREAM_FAILURE"
)

// Status returns the HTTP status the reason carries on the wire.
func (r Reason) Status() int {
	switch r {
	case ReasonNone:
		return http.StatusOK
	case ReasonUserAgentRequired:
		return http.StatusBadRequest
	case ReasonUpstreamFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// Decision is the outcome of evaluating one request against a route policy.
// Exactly one of the two shapes holds: Authorized with identity fields set,
// or denied with Reason set.
type Decision struct {
	Authorized bool
	Reason     Reason

	// Populated on success.
	Identity         *identity.Identity
	CustodialAddress string
	Subject          string
	SessionJTI       string

	// Populated only for the mint policy on success.
	MintedToken string
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}
