package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListLocalizations returns the store-listing strings of a version for every
// locale that has them.
func (c *Client) ListLocalizations(ctx context.Context, versionID string) ([]Localization, error) {
	path := fmt.Sprintf("/versions/%s/localizations", url.PathEscape(versionID))
	locs, err := listAll[Localization](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list localizations: %w", err)
	}
	return locs, nil
}

// CreateLocalization adds store-listing strings for a locale that does not
// have any yet.
func (c *Client) CreateLocalization(ctx context.Context, versionID string, loc Localization) (*Localization, error) {
	var out Localization
	path := fmt.Sprintf("/versions/%s/localizations", url.PathEscape(versionID))
	if err := c.postJSON(ctx, path, loc, &out); err != nil {
		return nil, fmt.Errorf("create localization %s: %w", loc.Locale, err)
	}
	return &out, nil
}

// UpdateLocalization replaces the store-listing strings of an existing
// localization record.
func (c *Client) UpdateLocalization(ctx context.Context, locID string, loc Localization) (*Localization, error) {
	var out Localization
	path := fmt.Sprintf("/localizations/%s", url.PathEscape(locID))
	if err := c.patchJSON(ctx, path, loc, &out); err != nil {
		return nil, fmt.Errorf("update localization %s: %w", loc.Locale, err)
	}
	return &out, nil
}
