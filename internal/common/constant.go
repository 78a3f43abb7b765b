package common

const (
	// RequestIDHeader carries a per-request correlation id on outbound
	// API calls.
	RequestIDHeader = "X-Request-Id"

	// AuthorizationHeader carries the bearer token on outbound API calls.
	AuthorizationHeader = "Authorization"
)
