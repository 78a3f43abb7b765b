package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/filex"
)

// Download mirrors the remote assets of versionID into root, one directory
// per locale and display type. File names are prefixed with the 1-based
// display position ("01_", "02_", ...) so a later upload of the tree keeps
// the order. Assets without a delivery URL yet are skipped; individual
// fetch failures are recorded and the rest of the run continues.
func (e *Engine) Download(ctx context.Context, root, versionID string) (*Summary, error) {
	remote, err := e.api.ListAssetSets(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("list asset sets: %w", err)
	}

	summary := NewSummary()
	for i := range remote {
		e.downloadSet(ctx, root, &remote[i], summary)
	}
	return summary, nil
}

func (e *Engine) downloadSet(ctx context.Context, root string, set *api.AssetSet, summary *Summary) {
	key := keyOf(set)
	log := e.log.With("set", key.String())

	dir := filepath.Join(root, set.Locale, set.DisplayType)
	if err := filex.EnsureDir(dir); err != nil {
		log.Error(ctx, "cannot create target directory", "error", err)
		summary.FailSet(key, len(set.Assets), err)
		return
	}

	for i := range set.Assets {
		asset := &set.Assets[i]
		name := fmt.Sprintf("%02d_%s", i+1, asset.FileName)

		url, ok := downloadURL(asset)
		if !ok {
			log.Warn(ctx, "no delivery URL yet, skipping", "file", asset.FileName)
			summary.Skip()
			continue
		}

		if err := e.fetchTo(ctx, url, filepath.Join(dir, name)); err != nil {
			log.Error(ctx, "download failed", "file", asset.FileName, "error", err)
			summary.Fail(filepath.Join(key.String(), name), err)
			continue
		}
		log.Info(ctx, "downloaded", "file", name)
		summary.Succeed()
	}
}

// downloadURL resolves the delivery URL of an asset. Previews ship a direct
// video URL; screenshots ship a templated image URL whose {w}, {h} and {f}
// placeholders select the rendition. The full-size original is requested,
// with the format taken from the file's own extension.
func downloadURL(asset *api.Asset) (string, bool) {
	if asset.VideoURL != "" {
		return asset.VideoURL, true
	}
	if asset.ImageTemplateURL == "" {
		return "", false
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(asset.FileName)), ".")
	if format == "" {
		format = "png"
	}
	r := strings.NewReplacer(
		"{w}", strconv.Itoa(asset.Width),
		"{h}", strconv.Itoa(asset.Height),
		"{f}", format,
	)
	return r.Replace(asset.ImageTemplateURL), true
}

// fetchTo streams url into path through a temporary sibling, so an
// interrupted transfer never leaves a truncated file under the final name.
func (e *Engine) fetchTo(ctx context.Context, url, path string) error {
	body, err := e.mover.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return err
	}
	tmp := path + ".partial-" + suffix

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
