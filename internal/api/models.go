package api

import "time"

// Asset kinds as they appear on the wire.
const (
	KindScreenshot = "SCREENSHOT"
	KindPreview    = "PREVIEW"
)

// AssetState describes the delivery state of an uploaded asset.
type AssetState string

const (
	// StateAwaitingUpload: reserved, bytes not yet confirmed.
	StateAwaitingUpload AssetState = "AWAITING_UPLOAD"
	// StateUploadComplete: bytes confirmed, server-side processing pending.
	StateUploadComplete AssetState = "UPLOAD_COMPLETE"
	// StateComplete: processed and live.
	StateComplete AssetState = "COMPLETE"
	// StateFailed: rejected during processing.
	StateFailed AssetState = "FAILED"
)

// AssetSet is an ordered container of assets for one locale and display type.
type AssetSet struct {
	ID          string  `json:"id"`
	Locale      string  `json:"locale"`
	DisplayType string  `json:"displayType"`
	Kind        string  `json:"kind"`
	Assets      []Asset `json:"assets,omitempty"`
}

// Asset is a single screenshot or preview video within a set. Sets list
// their assets in display order.
type Asset struct {
	ID       string     `json:"id"`
	FileName string     `json:"fileName"`
	FileSize int64      `json:"fileSize"`
	State    AssetState `json:"state"`
	Checksum string     `json:"checksum,omitempty"`

	// Image assets carry a URL template with {w}, {h} and {f} placeholders;
	// video assets carry a direct URL. Width/Height describe the full-size
	// rendition for template substitution.
	ImageTemplateURL string `json:"imageTemplateUrl,omitempty"`
	VideoURL         string `json:"videoUrl,omitempty"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
}

// HTTPHeader is one header to set verbatim on an upload operation request.
type HTTPHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UploadOperation describes one byte range of a reserved upload and the
// presigned request that must carry it.
type UploadOperation struct {
	Method  string       `json:"method"`
	URL     string       `json:"url"`
	Offset  int64        `json:"offset"`
	Length  int64        `json:"length"`
	Headers []HTTPHeader `json:"requestHeaders"`
}

// ReservedAsset is the response to an asset reservation: the created asset
// plus the upload operations for its byte ranges.
type ReservedAsset struct {
	Asset
	UploadOperations []UploadOperation `json:"uploadOperations"`
}

// Version is an editable store version of an app.
type Version struct {
	ID            string    `json:"id"`
	AppID         string    `json:"appId"`
	VersionString string    `json:"versionString"`
	Platform      string    `json:"platform"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Build is a processed binary that can be attached to a version.
type Build struct {
	ID              string    `json:"id"`
	AppID           string    `json:"appId"`
	Version         string    `json:"version"`
	ProcessingState string    `json:"processingState"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// Localization holds the store-listing strings of a version for one locale.
type Localization struct {
	ID          string `json:"id,omitempty"`
	Locale      string `json:"locale"`
	Name        string `json:"name,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	WhatsNew    string `json:"whatsNew,omitempty"`
}

// Profile is a distribution profile.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ProfileType string    `json:"profileType"`
	State       string    `json:"state"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
