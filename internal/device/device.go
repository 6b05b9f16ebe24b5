// Package device turns raw user-agent strings into human-readable device
// names and stable fingerprints. The gateway binds session tokens to the
// exact user-agent string; this package only feeds logging and session
// metadata.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent renders a display name like "Chrome on Mac OS X" from a raw
// user-agent string.
func ParseUserAgent(rawUA string) string {
	if rawUA == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OS()

	if name == "" {
		name = strings.SplitN(rawUA, "/", 2)[0]
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(name + " on " + os)
}

// Fingerprint computes a stable SHA-256 hex digest over the browser family,
// its major version, and the OS. Minor version churn does not move the
// fingerprint; a different browser or major version does.
func Fingerprint(rawUA string) string {
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	major := strings.SplitN(version, ".", 2)[0]

	sum := sha256.Sum256([]byte(name + "|" + major + "|" + ua.OS()))
	return hex.EncodeToString(sum[:])
}
