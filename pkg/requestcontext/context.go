// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter pairs live here so values set by the gateway
// middleware can be consumed by services and handlers without importing
// net/http or the middleware itself.
//
// Usage in handlers (read values):
//
//	ident := requestcontext.Identity(ctx)
//	subject := requestcontext.Subject(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, ident)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithUserAgent(ctx, "test-agent")
package requestcontext

import (
	"context"

	"walletgate/internal/identity"
)

// Context key types (unexported for encapsulation).
type (
	identityKey         struct{}
	custodialAddressKey struct{}
	subjectKey          struct{}
	userAgentKey        struct{}
	sessionJTIKey       struct{}
	requestIDKey        struct{}
)

// Identity retrieves the authenticated identity from the context, or nil when
// the request has not passed the session path of the gateway.
func Identity(ctx context.Context) *identity.Identity {
	if ident, ok := ctx.Value(identityKey{}).(*identity.Identity); ok {
		return ident
	}
	return nil
}

// WithIdentity injects an authenticated identity into the context.
func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// CustodialAddress retrieves the provisioned custodial wallet address.
func CustodialAddress(ctx context.Context) string {
	if addr, ok := ctx.Value(custodialAddressKey{}).(string); ok {
		return addr
	}
	return ""
}

// WithCustodialAddress injects the custodial wallet address.
func WithCustodialAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, custodialAddressKey{}, addr)
}

// Subject retrieves the verified federated subject. Set on the creation path,
// where no identity record exists yet.
func Subject(ctx context.Context) string {
	if sub, ok := ctx.Value(subjectKey{}).(string); ok {
		return sub
	}
	return ""
}

// WithSubject injects the verified federated subject.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// UserAgent retrieves the request's User-Agent as seen by the gateway.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithUserAgent injects the request User-Agent.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// SessionJTI retrieves the jti of the session token presented on this request.
// Empty on federated and unauthenticated paths.
func SessionJTI(ctx context.Context) string {
	if jti, ok := ctx.Value(sessionJTIKey{}).(string); ok {
		return jti
	}
	return ""
}

// WithSessionJTI injects the presented session token's jti.
func WithSessionJTI(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, sessionJTIKey{}, jti)
}

// RequestID retrieves the request correlation ID.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
