package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/filex"
)

// UploadOptions control an upload run.
type UploadOptions struct {
	// Replace clears every remote asset of a set before uploading the local
	// files, and removes remote sets that have no local counterpart. Without
	// it, files whose names already exist remotely are skipped and remote
	// extras are left in place.
	Replace bool
}

// Upload pushes the local asset tree under root into the remote sets of
// versionID. Files are processed per set in alphabetical order; the set's
// display order is rewritten once at the end of each mutated set.
//
// Per-file failures are recorded in the summary and do not stop the run.
// A set whose preparation fails (resolution, or clearing under Replace) is
// aborted as a whole before any of its bytes move.
func (e *Engine) Upload(ctx context.Context, root, versionID string, opts UploadOptions) (*Summary, error) {
	index, err := Scan(ctx, root, e.log)
	if err != nil {
		return nil, err
	}

	summary := NewSummary()
	summary.absorbScan(index)

	remote, err := e.api.ListAssetSets(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("list asset sets: %w", err)
	}
	bySetKey := mapSets(remote)

	for _, key := range index.Keys() {
		e.uploadSet(ctx, versionID, key, index.Sets[key], bySetKey[key], opts, summary)
	}

	if opts.Replace {
		e.deleteOrphanSets(ctx, index, remote, summary)
	}
	return summary, nil
}

func (e *Engine) uploadSet(ctx context.Context, versionID string, key SetKey, assets []LocalAsset, known *api.AssetSet, opts UploadOptions, summary *Summary) {
	log := e.log.With("set", key.String())

	set, err := e.ensureSet(ctx, versionID, key, known)
	if err != nil {
		log.Error(ctx, "set resolution failed", "error", err)
		summary.FailSet(key, len(assets), err)
		return
	}

	if opts.Replace && len(set.Assets) > 0 {
		if err := e.clearSet(ctx, set); err != nil {
			log.Error(ctx, "aborting set upload", "error", err)
			summary.FailSet(key, len(assets), err)
			return
		}
	}

	existing := make(map[string]*api.Asset, len(set.Assets))
	for i := range set.Assets {
		existing[set.Assets[i].FileName] = &set.Assets[i]
	}

	var finalIDs []string
	claimed := make(map[string]bool)
	mutated := false

	for _, asset := range assets {
		if prior, ok := existing[asset.FileName]; ok {
			log.Info(ctx, "already uploaded, skipping", "file", asset.FileName)
			summary.Skip()
			finalIDs = append(finalIDs, prior.ID)
			claimed[prior.ID] = true
			continue
		}

		id, err := e.uploadAsset(ctx, set.ID, asset)
		if err != nil {
			log.Error(ctx, "upload failed", "file", asset.FileName, "error", err)
			summary.Fail(asset.Path, err)
			continue
		}
		log.Info(ctx, "uploaded", "file", asset.FileName, "position", asset.Position)
		summary.Succeed()
		finalIDs = append(finalIDs, id)
		mutated = true
	}

	// Remote assets with no local counterpart keep their relative order
	// after the local ones.
	for _, remote := range set.Assets {
		if !claimed[remote.ID] {
			finalIDs = append(finalIDs, remote.ID)
		}
	}

	if mutated {
		if err := e.reorderSet(ctx, set.ID, key, finalIDs); err != nil {
			log.Error(ctx, "reorder failed", "error", err)
			summary.AddError(err)
		}
	}
}

// uploadAsset runs the reserve → transfer → commit pipeline for one file.
// A failed reservation fails the file outright. When a later stage fails at
// the transport level — typically expired presigned URLs — the dangling
// reservation is dropped and the pipeline restarts once from a fresh
// reservation, because the old URLs cannot be trusted anymore.
func (e *Engine) uploadAsset(ctx context.Context, setID string, asset LocalAsset) (string, error) {
	id, err := e.uploadAttempt(ctx, setID, asset)
	if err == nil {
		return id, nil
	}
	if id == "" {
		return "", err
	}
	_ = e.api.DeleteAsset(ctx, id)
	if !errors.Is(err, common.ErrorTransport) {
		return "", err
	}

	e.log.Warn(ctx, "transfer failed, restarting from reserve", "file", asset.FileName, "error", err)
	id, err = e.uploadAttempt(ctx, setID, asset)
	if err != nil {
		if id != "" {
			_ = e.api.DeleteAsset(ctx, id)
		}
		return "", err
	}
	return id, nil
}

// uploadAttempt performs one pass of the upload pipeline. On failure it
// returns the reserved asset id (if any) so the caller can clean it up.
func (e *Engine) uploadAttempt(ctx context.Context, setID string, asset LocalAsset) (string, error) {
	reserved, err := e.api.ReserveAsset(ctx, setID, asset.FileName, asset.Size)
	if err != nil {
		return "", fmt.Errorf("reserve: %w", err)
	}

	f, err := os.Open(asset.Path)
	if err != nil {
		return reserved.ID, fmt.Errorf("open %s: %w", asset.Path, err)
	}
	defer f.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for _, op := range reserved.UploadOperations {
		op := op // per-iteration copy; required while go.mod declares go < 1.22
		g.Go(func() error {
			buf := make([]byte, op.Length)
			n, err := f.ReadAt(buf, op.Offset)
			if err != nil && err != io.EOF {
				return fmt.Errorf("read chunk at %d: %w", op.Offset, err)
			}
			if int64(n) != op.Length {
				return fmt.Errorf("file shrank during upload: chunk at %d is %d bytes, want %d", op.Offset, n, op.Length)
			}
			return e.mover.PutChunk(gctx, op, buf)
		})
	}
	if err := g.Wait(); err != nil {
		return reserved.ID, err
	}

	checksum, err := filex.MD5Sum(asset.Path)
	if err != nil {
		return reserved.ID, err
	}
	if _, err := e.api.CommitAsset(ctx, reserved.ID, checksum); err != nil {
		return reserved.ID, err
	}
	return reserved.ID, nil
}

// deleteOrphanSets removes remote sets that have no local counterpart, so a
// replace run leaves the remote state mirroring the local tree exactly.
func (e *Engine) deleteOrphanSets(ctx context.Context, index *LocalIndex, remote []api.AssetSet, summary *Summary) {
	for i := range remote {
		key := keyOf(&remote[i])
		if _, ok := index.Sets[key]; ok {
			continue
		}
		if err := e.api.DeleteAssetSet(ctx, remote[i].ID); err != nil {
			e.log.Error(ctx, "failed to remove remote set", "set", key.String(), "error", err)
			summary.AddError(fmt.Errorf("delete set %s: %w", key, err))
			continue
		}
		e.log.Info(ctx, "removed remote set with no local counterpart", "set", key.String())
	}
}
