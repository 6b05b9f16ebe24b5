package gateway

// RoutePolicy says which credential type a route accepts. The router assigns
// a policy per route at wiring time; the state machine consumes it instead of
// matching on paths.
type RoutePolicy int

const (
	// PolicyCreation is the identity-creation route: federated credential
	// only, verified subject handed to the creation handler.
	PolicyCreation RoutePolicy = iota
	// PolicyMint is the session-minting route: federated credential only.
	// Terminal on success; the gateway responds with a fresh session token.
	PolicyMint
	// PolicySession covers all other protected routes: session credential
	// only, identity and custodial wallet attached on success.
	PolicySession
)

func (p RoutePolicy) String() string {
	switch p {
	case PolicyCreation:
		return "creation"
	case PolicyMint:
		return "mint"
	case PolicySession:
		return "session"
	default:
		return "unknown"
	}
}
