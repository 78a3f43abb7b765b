package media

import (
	"context"
	"fmt"
)

// reorderSet rewrites a set's display order with a single relationship call.
// Callers issue it at most once per set, after all mutations of that set are
// done, so a crash mid-run never leaves the order half-written.
func (e *Engine) reorderSet(ctx context.Context, setID string, key SetKey, ids []string) error {
	if err := e.api.ReorderAssets(ctx, setID, ids); err != nil {
		return fmt.Errorf("reorder set %s: %w", key, err)
	}
	e.log.Info(ctx, "set order updated", "set", key.String(), "assets", len(ids))
	return nil
}
