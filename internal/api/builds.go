package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListBuilds returns the uploaded builds of an app, newest first.
func (c *Client) ListBuilds(ctx context.Context, appID string) ([]Build, error) {
	path := fmt.Sprintf("/apps/%s/builds", url.PathEscape(appID))
	builds, err := listAll[Build](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	return builds, nil
}

// AttachBuild links a processed build to a store version, replacing any
// previously attached build.
func (c *Client) AttachBuild(ctx context.Context, versionID, buildID string) error {
	in := struct {
		Data string `json:"data"`
	}{Data: buildID}

	path := fmt.Sprintf("/versions/%s/relationships/build", url.PathEscape(versionID))
	if err := c.patchJSON(ctx, path, in, nil); err != nil {
		return fmt.Errorf("attach build %s: %w", buildID, err)
	}
	return nil
}
