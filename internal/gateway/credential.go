package gateway

import (
	"net/http"
	"strings"
)

const (
	headerAuthorization = "Authorization"
	headerFederated     = "X-Federated-JWT"

	bearerPrefix = "Bearer "
)

// CredentialKind tags which header carried the credential.
type CredentialKind int

const (
	KindNone CredentialKind = iota
	KindSession
	KindFederated
)

// Credential is the single credential extracted from a request, or the
// detection that zero or both headers were present. Token holds the raw value
// after the Bearer prefix; BadFormat is set when the header was present but
// the prefix was missing or the token empty.
type Credential struct {
	Kind      CredentialKind
	Token     string
	Multiple  bool
	BadFormat bool
}

// extractCredential inspects both credential headers and classifies the
// request. Presence is judged on the raw header so that a malformed value
// still counts toward the mutual-exclusivity check.
func extractCredential(r *http.Request) Credential {
	session := r.Header.Get(headerAuthorization)
	federated := r.Header.Get(headerFederated)

	switch {
	case session != "" && federated != "":
		return Credential{Multiple: true}
	case session == "" && federated == "":
		return Credential{Kind: KindNone}
	case session != "":
		return bearerToken(KindSession, session)
	default:
		return bearerToken(KindFederated, federated)
	}
}

func bearerToken(kind CredentialKind, header string) Credential {
	if !strings.HasPrefix(header, bearerPrefix) {
		return Credential{Kind: kind, BadFormat: true}
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return Credential{Kind: kind, BadFormat: true}
	}
	return Credential{Kind: kind, Token: token}
}
