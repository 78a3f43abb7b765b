package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/appmarket/appship/internal/common"
)

// Error codes the client reacts to specifically.
const (
	// CodeChecksumMismatch: the committed digest does not match what the
	// storage backend received. The upload is unusable and retrying the
	// commit cannot fix it.
	CodeChecksumMismatch = "ASSET_CHECKSUM_MISMATCH"

	// CodeAlreadyExists: returned when creating a resource that a
	// concurrent writer created first.
	CodeAlreadyExists = "ALREADY_EXISTS"
)

// Error is one error object from the marketplace error envelope.
type Error struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("appmarket: %d %s: %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("appmarket: %d %s: %s", e.Status, e.Code, e.Title)
}

// Unwrap maps the API error onto the shared sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	switch {
	case e.Code == CodeChecksumMismatch:
		return common.ErrorIntegrity
	case e.Status == http.StatusNotFound:
		return common.ErrorNotFound
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return common.ErrorUnauthorized
	case e.Status >= 500:
		return common.ErrorTransport
	}
	return nil
}

// IsConflict reports whether err is an API error signalling that the
// resource already exists (concurrent creation).
func IsConflict(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusConflict || apiErr.Code == CodeAlreadyExists
}

type errorEnvelope struct {
	Errors []Error `json:"errors"`
}
