package media

import (
	"context"
	"fmt"

	"github.com/appmarket/appship/internal/api"
)

func keyOf(set *api.AssetSet) SetKey {
	return SetKey{
		Locale:      set.Locale,
		DisplayType: set.DisplayType,
		Kind:        kindFromAPI(set.Kind),
	}
}

// mapSets indexes remote sets by key. Duplicate keys never happen on a
// healthy account; the first one wins.
func mapSets(sets []api.AssetSet) map[SetKey]*api.AssetSet {
	m := make(map[SetKey]*api.AssetSet, len(sets))
	for i := range sets {
		key := keyOf(&sets[i])
		if _, ok := m[key]; !ok {
			m[key] = &sets[i]
		}
	}
	return m
}

// ensureSet returns the remote set for key, creating it when missing.
// known is the set from the workflow's initial listing, or nil.
//
// Creation is get-or-create: immediately before creating, the version's sets
// are listed again to catch sets created concurrently since the initial
// listing. Should the create still lose a race, the conflict answer from the
// server triggers one more lookup for the winner.
func (e *Engine) ensureSet(ctx context.Context, versionID string, key SetKey, known *api.AssetSet) (*api.AssetSet, error) {
	if known != nil {
		return known, nil
	}

	if set, err := e.findSet(ctx, versionID, key); err != nil || set != nil {
		return set, err
	}

	created, err := e.api.CreateAssetSet(ctx, versionID, key.Locale, key.DisplayType, key.Kind.APIKind())
	if err != nil {
		if api.IsConflict(err) {
			set, ferr := e.findSet(ctx, versionID, key)
			if ferr != nil {
				return nil, ferr
			}
			if set != nil {
				return set, nil
			}
		}
		return nil, fmt.Errorf("ensure set %s: %w", key, err)
	}
	e.log.Info(ctx, "created asset set", "set", key.String(), "id", created.ID)
	return created, nil
}

func (e *Engine) findSet(ctx context.Context, versionID string, key SetKey) (*api.AssetSet, error) {
	sets, err := e.api.ListAssetSets(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("ensure set %s: %w", key, err)
	}
	for i := range sets {
		if keyOf(&sets[i]) == key {
			return &sets[i], nil
		}
	}
	return nil, nil
}

// clearSet deletes every existing asset of the set. The first failure stops
// the clearing: a replace that cannot guarantee an empty set must not
// produce a mix of old and new assets.
func (e *Engine) clearSet(ctx context.Context, set *api.AssetSet) error {
	for _, asset := range set.Assets {
		if err := e.api.DeleteAsset(ctx, asset.ID); err != nil {
			return fmt.Errorf("delete existing asset %s: %w", asset.FileName, err)
		}
	}
	e.log.Info(ctx, "cleared existing assets", "set", keyOf(set).String(), "count", len(set.Assets))
	set.Assets = nil
	return nil
}
