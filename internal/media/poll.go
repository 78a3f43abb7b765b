package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
)

// PollResult is a snapshot of a version's asset delivery progress.
type PollResult struct {
	Complete int
	Failed   int
	Pending  int
}

// Done reports whether every asset reached a terminal state. Failed assets
// are terminal too: waiting longer will not fix them, only Repair will.
func (r PollResult) Done() bool {
	return r.Pending == 0
}

func (r PollResult) String() string {
	return fmt.Sprintf("complete %d, failed %d, pending %d", r.Complete, r.Failed, r.Pending)
}

var errDeliveryPending = errors.New("delivery still pending")

// WaitForDelivery polls the asset state of versionID every interval until
// all assets are terminal or deadline passes. The last observed snapshot is
// returned either way, so callers can report progress even on timeout.
func (e *Engine) WaitForDelivery(ctx context.Context, versionID string, interval, deadline time.Duration) (PollResult, error) {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	var last PollResult
	err := retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		report, err := e.Verify(ctx, versionID)
		if err != nil {
			if errors.Is(err, common.ErrorTransport) {
				return retry.RetryableError(err)
			}
			return err
		}
		last = tally(report)
		e.log.Info(ctx, "delivery progress", "version", versionID,
			"complete", last.Complete, "failed", last.Failed, "pending", last.Pending)
		if !last.Done() {
			return retry.RetryableError(errDeliveryPending)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errDeliveryPending) || errors.Is(err, context.DeadlineExceeded) {
			return last, fmt.Errorf("assets not delivered after %s: %d still pending", deadline, last.Pending)
		}
		return last, err
	}
	return last, nil
}

func tally(report *VerifyReport) PollResult {
	var r PollResult
	for i := range report.Sets {
		set := &report.Sets[i]
		r.Complete += set.Total - len(set.Issues)
		for _, issue := range set.Issues {
			if issue.State == api.StateFailed {
				r.Failed++
			} else {
				r.Pending++
			}
		}
	}
	return r
}
