package media

import (
	"path/filepath"
	"strings"

	"github.com/appmarket/appship/internal/api"
)

// AssetKind classifies a local file as a screenshot or a preview video.
type AssetKind string

const (
	KindScreenshot AssetKind = "screenshot"
	KindPreview    AssetKind = "preview"
)

// APIKind maps the local kind onto its wire constant.
func (k AssetKind) APIKind() string {
	if k == KindPreview {
		return api.KindPreview
	}
	return api.KindScreenshot
}

func kindFromAPI(kind string) AssetKind {
	if kind == api.KindPreview {
		return KindPreview
	}
	return KindScreenshot
}

// classifyExt returns the asset kind for a file name based on its extension,
// matched case-insensitively. ok is false for unsupported extensions.
func classifyExt(name string) (AssetKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return KindScreenshot, true
	case ".mp4", ".mov":
		return KindPreview, true
	}
	return "", false
}

// IsScreenshotOnly reports whether a display type accepts screenshots only.
// Watch and message-extension form factors have no preview slot in the
// marketplace.
func IsScreenshotOnly(displayType string) bool {
	return strings.HasPrefix(displayType, "WATCH_") || strings.HasPrefix(displayType, "MSG_")
}
