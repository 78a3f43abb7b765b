package api

import (
	"context"
	"fmt"
	"net/url"
)

// CreateVersion creates an editable store version for an app.
func (c *Client) CreateVersion(ctx context.Context, appID, versionString, platform string) (*Version, error) {
	in := struct {
		VersionString string `json:"versionString"`
		Platform      string `json:"platform"`
	}{VersionString: versionString, Platform: platform}

	var out Version
	path := fmt.Sprintf("/apps/%s/versions", url.PathEscape(appID))
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, fmt.Errorf("create version %s: %w", versionString, err)
	}
	return &out, nil
}

// ListVersions returns the store versions of an app, newest first.
func (c *Client) ListVersions(ctx context.Context, appID string) ([]Version, error) {
	path := fmt.Sprintf("/apps/%s/versions", url.PathEscape(appID))
	versions, err := listAll[Version](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}
