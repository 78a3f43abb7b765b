package media

import (
	"context"
	"fmt"

	"github.com/appmarket/appship/internal/common"
)

// Repair replaces the stuck and failed assets of versionID with their local
// counterparts under root. Correlation is by display position: the repair
// assumes the remote order was produced by Upload, so the i-th remote asset
// corresponds to the i-th local file in alphabetical order.
//
// A set whose local file count differs from its remote asset count is
// refused with a cardinality error, because positions can no longer be
// matched safely. Re-running Upload with Replace is the way out of that.
func (e *Engine) Repair(ctx context.Context, root, versionID string) (*Summary, error) {
	index, err := Scan(ctx, root, e.log)
	if err != nil {
		return nil, err
	}
	summary := NewSummary()
	summary.absorbScan(index)

	report, err := e.Verify(ctx, versionID)
	if err != nil {
		return nil, err
	}

	for i := range report.Sets {
		set := &report.Sets[i]
		if set.Complete() {
			continue
		}
		e.repairSet(ctx, set, index.Sets[set.Key], summary)
	}
	return summary, nil
}

func (e *Engine) repairSet(ctx context.Context, report *SetReport, local []LocalAsset, summary *Summary) {
	log := e.log.With("set", report.Key.String())

	if len(local) != report.Total {
		err := fmt.Errorf("%d remote assets but %d local files: %w",
			report.Total, len(local), common.ErrorCardinalityMismatch)
		log.Error(ctx, "refusing to repair", "error", err)
		summary.FailSet(report.Key, len(report.Issues), err)
		return
	}

	order := append([]string(nil), report.AssetIDs...)
	mutated := false

	for _, issue := range report.Issues {
		asset := local[issue.Position-1]
		if asset.FileName != issue.FileName {
			log.Warn(ctx, "local name differs from remote at this position",
				"position", issue.Position, "local", asset.FileName, "remote", issue.FileName)
		}

		if err := e.api.DeleteAsset(ctx, issue.AssetID); err != nil {
			log.Error(ctx, "cannot delete broken asset", "file", issue.FileName, "error", err)
			summary.Fail(asset.Path, fmt.Errorf("delete broken asset %s: %w", issue.AssetID, err))
			continue
		}

		id, err := e.uploadAsset(ctx, report.SetID, asset)
		if err != nil {
			log.Error(ctx, "re-upload failed", "file", asset.FileName, "error", err)
			summary.Fail(asset.Path, err)
			order[issue.Position-1] = ""
			mutated = true
			continue
		}
		log.Info(ctx, "repaired", "file", asset.FileName, "position", issue.Position)
		summary.Succeed()
		order[issue.Position-1] = id
		mutated = true
	}

	if !mutated {
		return
	}
	final := make([]string, 0, len(order))
	for _, id := range order {
		if id != "" {
			final = append(final, id)
		}
	}
	if err := e.reorderSet(ctx, report.SetID, report.Key, final); err != nil {
		log.Error(ctx, "reorder failed", "error", err)
		summary.AddError(err)
	}
}
