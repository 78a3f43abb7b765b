// Package api implements the AppMarket developer REST API client.
//
// Authentication uses short-lived ES256 JWTs minted from a developer API key
// (issuer id + key id + PEM private key); see TokenSource. Every request
// carries a fresh X-Request-Id for correlation.
//
// Responses arrive in a {"data": ..., "next": ...} envelope; collections are
// paginated with opaque cursors that the list methods follow transparently.
// Failures arrive as an {"errors": [...]} envelope and surface as *Error
// values, which unwrap to the shared sentinels in internal/common so callers
// can classify them with errors.Is: not-found, unauthorized, transport
// (retryable) and integrity (non-retryable checksum rejection).
//
// The client only ever talks to the REST endpoints. Bulk bytes — presigned
// uploads and asset downloads — are moved by the transfer package using the
// URLs this package hands out.
package api
