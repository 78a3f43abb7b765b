package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/appmarket/appship/internal/logging"
)

// SetKey identifies one asset set: locale × display type × kind.
type SetKey struct {
	Locale      string
	DisplayType string
	Kind        AssetKind
}

func (k SetKey) String() string {
	return k.Locale + "/" + k.DisplayType + "/" + string(k.Kind)
}

// LocalAsset is one file discovered under the asset root.
type LocalAsset struct {
	Path     string // absolute path of the file
	FileName string
	Size     int64
	// Position is 1-based and dense within the asset's set, following
	// case-sensitive alphabetical order of file names. It is the only
	// correlation between local files and remote slots.
	Position int
}

// ScanWarning records a filesystem entry the scanner ignored and why.
type ScanWarning struct {
	Path   string
	Reason string
}

// LocalIndex is the deterministic result of scanning an asset root.
// Scanning the same tree always produces the same index.
type LocalIndex struct {
	Root     string
	Sets     map[SetKey][]LocalAsset
	Warnings []ScanWarning
}

// Keys returns the set keys ordered by locale, display type, then kind.
func (ix *LocalIndex) Keys() []SetKey {
	keys := make([]SetKey, 0, len(ix.Sets))
	for k := range ix.Sets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Locale != b.Locale {
			return a.Locale < b.Locale
		}
		if a.DisplayType != b.DisplayType {
			return a.DisplayType < b.DisplayType
		}
		return a.Kind < b.Kind
	})
	return keys
}

// Scan reads a two-level <root>/<locale>/<displayType>/ tree and classifies
// every file by extension. Entries that do not fit the layout — stray files,
// deeper nesting, unsupported extensions, previews under screenshot-only
// display types — are recorded as warnings and skipped, never treated as
// fatal. An existing but empty root yields an empty index.
func Scan(ctx context.Context, root string, log logging.Logger) (*LocalIndex, error) {
	ix := &LocalIndex{Root: root, Sets: map[SetKey][]LocalAsset{}}

	localeDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	for _, localeEntry := range localeDirs {
		localePath := filepath.Join(root, localeEntry.Name())
		if !localeEntry.IsDir() {
			ix.warn(ctx, log, localePath, "not a locale directory")
			continue
		}
		locale := localeEntry.Name()

		typeDirs, err := os.ReadDir(localePath)
		if err != nil {
			return nil, fmt.Errorf("scan locale %s: %w", locale, err)
		}
		for _, typeEntry := range typeDirs {
			typePath := filepath.Join(localePath, typeEntry.Name())
			if !typeEntry.IsDir() {
				ix.warn(ctx, log, typePath, "not a display-type directory")
				continue
			}
			if err := ix.scanSetDir(ctx, log, locale, typeEntry.Name(), typePath); err != nil {
				return nil, err
			}
		}
	}

	// Positions follow the per-directory listing order, which is sorted
	// below; assign them densely per set.
	for key := range ix.Sets {
		assets := ix.Sets[key]
		sort.Slice(assets, func(i, j int) bool { return assets[i].FileName < assets[j].FileName })
		for i := range assets {
			assets[i].Position = i + 1
		}
		ix.Sets[key] = assets
	}
	return ix, nil
}

func (ix *LocalIndex) scanSetDir(ctx context.Context, log logging.Logger, locale, displayType, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan %s/%s: %w", locale, displayType, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			ix.warn(ctx, log, path, "nested directory ignored")
			continue
		}

		kind, ok := classifyExt(entry.Name())
		if !ok {
			ix.warn(ctx, log, path, "unsupported file type")
			continue
		}
		if kind == KindPreview && IsScreenshotOnly(displayType) {
			ix.warn(ctx, log, path, "display type accepts screenshots only")
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		key := SetKey{Locale: locale, DisplayType: displayType, Kind: kind}
		ix.Sets[key] = append(ix.Sets[key], LocalAsset{
			Path:     path,
			FileName: entry.Name(),
			Size:     info.Size(),
		})
	}
	return nil
}

func (ix *LocalIndex) warn(ctx context.Context, log logging.Logger, path, reason string) {
	ix.Warnings = append(ix.Warnings, ScanWarning{Path: path, Reason: reason})
	log.Warn(ctx, "skipping during scan", "path", path, "reason", reason)
}
