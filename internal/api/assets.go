package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/appmarket/appship/internal/common"
)

// ListAssetSets returns every asset set of a version, assets included, in
// the server's display order.
func (c *Client) ListAssetSets(ctx context.Context, versionID string) ([]AssetSet, error) {
	path := fmt.Sprintf("/versions/%s/assetSets", url.PathEscape(versionID))
	query := url.Values{"include": {"assets"}}
	sets, err := listAll[AssetSet](ctx, c, path, query)
	if err != nil {
		return nil, fmt.Errorf("list asset sets: %w", err)
	}
	return sets, nil
}

// CreateAssetSet creates an asset set for the given locale, display type and
// kind. The server rejects duplicates with a conflict error; see IsConflict.
func (c *Client) CreateAssetSet(ctx context.Context, versionID, locale, displayType, kind string) (*AssetSet, error) {
	in := struct {
		Locale      string `json:"locale"`
		DisplayType string `json:"displayType"`
		Kind        string `json:"kind"`
	}{Locale: locale, DisplayType: displayType, Kind: kind}

	var out AssetSet
	path := fmt.Sprintf("/versions/%s/assetSets", url.PathEscape(versionID))
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, fmt.Errorf("create asset set %s/%s: %w", locale, displayType, err)
	}
	return &out, nil
}

// ReserveAsset registers an upload slot for a file in the given set. The
// response carries the presigned upload operations for the file's byte
// ranges; the reserved asset stays in AWAITING_UPLOAD until committed.
func (c *Client) ReserveAsset(ctx context.Context, setID, fileName string, fileSize int64) (*ReservedAsset, error) {
	in := struct {
		FileName string `json:"fileName"`
		FileSize int64  `json:"fileSize"`
	}{FileName: fileName, FileSize: fileSize}

	var out ReservedAsset
	path := fmt.Sprintf("/assetSets/%s/assets", url.PathEscape(setID))
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, fmt.Errorf("reserve %s: %w", fileName, err)
	}
	return &out, nil
}

// CommitAsset marks a reserved asset as fully uploaded and hands the server
// the MD5 digest of the whole file for verification.
func (c *Client) CommitAsset(ctx context.Context, assetID, checksum string) (*Asset, error) {
	in := struct {
		Uploaded bool   `json:"uploaded"`
		Checksum string `json:"checksum"`
	}{Uploaded: true, Checksum: checksum}

	var out Asset
	path := fmt.Sprintf("/assets/%s", url.PathEscape(assetID))
	if err := c.patchJSON(ctx, path, in, &out); err != nil {
		return nil, fmt.Errorf("commit asset %s: %w", assetID, err)
	}
	return &out, nil
}

// DeleteAsset removes a single asset from its set. A missing asset counts as
// success: the goal state is reached either way.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	path := fmt.Sprintf("/assets/%s", url.PathEscape(assetID))
	if err := c.deleteResource(ctx, path); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("delete asset %s: %w", assetID, err)
	}
	return nil
}

// DeleteAssetSet removes a whole asset set including its assets. A missing
// set counts as success.
func (c *Client) DeleteAssetSet(ctx context.Context, setID string) error {
	path := fmt.Sprintf("/assetSets/%s", url.PathEscape(setID))
	if err := c.deleteResource(ctx, path); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("delete asset set %s: %w", setID, err)
	}
	return nil
}

// ReorderAssets replaces the display order of a set with the given asset id
// list. One call reorders the whole set.
func (c *Client) ReorderAssets(ctx context.Context, setID string, assetIDs []string) error {
	in := struct {
		Data []string `json:"data"`
	}{Data: assetIDs}

	path := fmt.Sprintf("/assetSets/%s/relationships/assets", url.PathEscape(setID))
	if err := c.patchJSON(ctx, path, in, nil); err != nil {
		return fmt.Errorf("reorder asset set %s: %w", setID, err)
	}
	return nil
}
