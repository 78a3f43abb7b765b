package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListProfiles returns the account's distribution profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	profiles, err := listAll[Profile](ctx, c, "/profiles", nil)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// CreateProfile creates a distribution profile of the given type.
func (c *Client) CreateProfile(ctx context.Context, name, profileType string) (*Profile, error) {
	in := struct {
		Name        string `json:"name"`
		ProfileType string `json:"profileType"`
	}{Name: name, ProfileType: profileType}

	var out Profile
	if err := c.postJSON(ctx, "/profiles", in, &out); err != nil {
		return nil, fmt.Errorf("create profile %s: %w", name, err)
	}
	return &out, nil
}

// DeleteProfile removes a distribution profile.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	path := fmt.Sprintf("/profiles/%s", url.PathEscape(id))
	if err := c.deleteResource(ctx, path); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return nil
}
