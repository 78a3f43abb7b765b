// Package common defines shared constants and sentinel errors used across
// appship layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Remote lookups.
	ErrorNotFound = errors.New("not found")

	// Auth failures (rejected key, expired token).
	ErrorUnauthorized = errors.New("unauthorized")

	// Transient network or server-side failures; retrying is safe.
	ErrorTransport = errors.New("transport error")

	// The marketplace rejected an uploaded file's checksum.
	ErrorIntegrity = errors.New("integrity error")

	// Local and remote asset counts differ where a one-to-one match is
	// required (repair refuses to guess which file maps to which slot).
	ErrorCardinalityMismatch = errors.New("cardinality mismatch")

	ErrorInternal = errors.New("internal error")
)
