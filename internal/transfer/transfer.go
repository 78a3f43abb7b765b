// Package transfer moves raw asset bytes: chunk uploads to presigned URLs
// handed out at reservation time, and downloads of delivered assets. It
// never constructs or signs URLs itself.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/logging"
)

type Transfer struct {
	http       *http.Client
	log        logging.Logger
	maxRetries uint64
}

// New builds a Transfer. timeout bounds each chunk request; maxRetries is
// the number of extra attempts per chunk on transport failures.
func New(log logging.Logger, timeout time.Duration, maxRetries uint64) *Transfer {
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Transfer{
		http:       &http.Client{Timeout: timeout},
		log:        log,
		maxRetries: maxRetries,
	}
}

// PutChunk uploads one byte range to its presigned URL, replaying the
// operation's method and headers verbatim.
//
// Connection failures and 5xx responses are retried with constant backoff.
// 4xx responses are not retried here: an expired signature comes back as
// 403, and only a fresh reservation can fix that. Either way the returned
// error matches common.ErrorTransport, signalling that the upload as a whole
// may be restarted from reserve.
func (t *Transfer) PutChunk(ctx context.Context, op api.UploadOperation, chunk []byte) error {
	attempt := func(ctx context.Context) error {
		err := t.putOnce(ctx, op, chunk)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		t.log.Warn(ctx, "retrying chunk upload", "offset", op.Offset, "error", err)
		return retry.RetryableError(err)
	}

	backoff := retry.WithMaxRetries(t.maxRetries, retry.NewConstant(time.Second))
	if err := retry.Do(ctx, backoff, attempt); err != nil {
		return fmt.Errorf("chunk at offset %d: %w", op.Offset, err)
	}
	return nil
}

func (t *Transfer) putOnce(ctx context.Context, op api.UploadOperation, chunk []byte) error {
	method := op.Method
	if method == "" {
		method = http.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, op.URL, bytes.NewReader(chunk))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	for _, h := range op.Headers {
		req.Header.Set(h.Name, h.Value)
	}
	req.ContentLength = int64(len(chunk))

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("put chunk: %w: %w", common.ErrorTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &statusError{
			status: resp.StatusCode,
			text:   fmt.Sprintf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Fetch opens a download stream for the asset at url. The caller must close
// the returned reader. No retries: download failures are skipped per asset
// by the caller.
func (t *Transfer) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %w", common.ErrorTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", resp.Status, common.ErrorTransport)
	}
	return resp.Body, nil
}

// statusError keeps the HTTP status around so PutChunk can distinguish
// retryable 5xx from permanent 4xx. It still matches common.ErrorTransport.
type statusError struct {
	status int
	text   string
}

func (e *statusError) Error() string { return e.text }

func (e *statusError) Unwrap() error { return common.ErrorTransport }

func permanent(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.status >= 400 && se.status < 500
	}
	return false
}
