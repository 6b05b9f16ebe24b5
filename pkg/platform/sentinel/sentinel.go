package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and token primitives return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: uniqueness constraint hit (identity or wallet already stored)
// - ErrExpired: token time window elapsed, signature was valid
// - ErrInvalidToken: signature or claims failed verification
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnavailable  = errors.New("unavailable")
)
