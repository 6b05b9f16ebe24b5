package audit

import "time"

// Event is emitted from the gateway to capture authentication outcomes. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    string
	Policy    string
	Decision  string
	Reason    string
	Subject   string
	UserID    int64
	Device    string
}

// Decisions recorded on events.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Actions recorded on events.
const (
	ActionAuthenticate = "authenticate"
	ActionIssueToken   = "issue_token"
	ActionRevokeToken  = "revoke_token"
	ActionCreateUser   = "create_user"
)
