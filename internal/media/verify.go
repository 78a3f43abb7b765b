package media

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/appmarket/appship/internal/api"
)

// AssetIssue describes one remote asset that is not fully delivered.
type AssetIssue struct {
	AssetID  string
	FileName string
	Position int
	State    api.AssetState
}

// Stuck reports whether the asset's bytes arrived but the backend never
// finished processing them. Such assets stay in this state indefinitely and
// block review submission until deleted and uploaded again.
func (i AssetIssue) Stuck() bool {
	return i.State == api.StateUploadComplete
}

// SetReport is the verification outcome for one asset set.
type SetReport struct {
	Key    SetKey
	SetID  string
	Total  int
	Issues []AssetIssue

	// AssetIDs holds every asset of the set in current display order,
	// issues included. Repair uses it to rebuild the order after swapping
	// an asset out.
	AssetIDs []string
}

// Complete reports whether every asset of the set is delivered.
func (r *SetReport) Complete() bool {
	return len(r.Issues) == 0
}

// VerifyReport is the verification outcome for a whole version.
type VerifyReport struct {
	VersionID string
	Sets      []SetReport
}

// Complete reports whether every set of the version is fully delivered.
func (r *VerifyReport) Complete() bool {
	for i := range r.Sets {
		if !r.Sets[i].Complete() {
			return false
		}
	}
	return true
}

// String renders the report for terminal output. Fully delivered sets get a
// single compact line; sets with problems list each affected asset with its
// display position and state.
func (r *VerifyReport) String() string {
	var b strings.Builder
	for i := range r.Sets {
		set := &r.Sets[i]
		if set.Complete() {
			fmt.Fprintf(&b, "%s: %d assets, all complete\n", set.Key, set.Total)
			continue
		}
		fmt.Fprintf(&b, "%s: %d of %d complete\n", set.Key, set.Total-len(set.Issues), set.Total)
		for _, issue := range set.Issues {
			fmt.Fprintf(&b, "  %02d %s [%s]", issue.Position, issue.FileName, issue.State)
			if issue.Stuck() {
				b.WriteString(" (stuck)")
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Verify inspects the delivery state of every asset of versionID without
// changing anything remotely. Assets in a terminal good state are counted;
// everything else is reported as an issue at its display position.
func (e *Engine) Verify(ctx context.Context, versionID string) (*VerifyReport, error) {
	remote, err := e.api.ListAssetSets(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("list asset sets: %w", err)
	}

	sort.Slice(remote, func(i, j int) bool {
		a, b := keyOf(&remote[i]), keyOf(&remote[j])
		if a.Locale != b.Locale {
			return a.Locale < b.Locale
		}
		if a.DisplayType != b.DisplayType {
			return a.DisplayType < b.DisplayType
		}
		return a.Kind < b.Kind
	})

	report := &VerifyReport{VersionID: versionID}
	for i := range remote {
		set := &remote[i]
		sr := SetReport{
			Key:   keyOf(set),
			SetID: set.ID,
			Total: len(set.Assets),
		}
		for j := range set.Assets {
			asset := &set.Assets[j]
			sr.AssetIDs = append(sr.AssetIDs, asset.ID)
			if asset.State == api.StateComplete {
				continue
			}
			sr.Issues = append(sr.Issues, AssetIssue{
				AssetID:  asset.ID,
				FileName: asset.FileName,
				Position: j + 1,
				State:    asset.State,
			})
		}
		report.Sets = append(report.Sets, sr)
	}

	e.log.Info(ctx, "verified", "version", versionID, "sets", len(report.Sets), "complete", report.Complete())
	return report, nil
}
