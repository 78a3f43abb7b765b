package media

import (
	"context"
	"io"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/logging"
)

// Client is the slice of the marketplace API the sync engine consumes.
// *api.Client satisfies it.
type Client interface {
	ListAssetSets(ctx context.Context, versionID string) ([]api.AssetSet, error)
	CreateAssetSet(ctx context.Context, versionID, locale, displayType, kind string) (*api.AssetSet, error)
	ReserveAsset(ctx context.Context, setID, fileName string, fileSize int64) (*api.ReservedAsset, error)
	CommitAsset(ctx context.Context, assetID, checksum string) (*api.Asset, error)
	DeleteAsset(ctx context.Context, assetID string) error
	DeleteAssetSet(ctx context.Context, setID string) error
	ReorderAssets(ctx context.Context, setID string, assetIDs []string) error
}

// Mover moves raw bytes to and from storage URLs. *transfer.Transfer
// satisfies it.
type Mover interface {
	PutChunk(ctx context.Context, op api.UploadOperation, chunk []byte) error
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Engine synchronizes visual assets between a local directory tree and the
// remote asset sets of one app version. One Engine runs one workflow at a
// time; methods must not be called concurrently.
type Engine struct {
	api         Client
	mover       Mover
	log         logging.Logger
	parallelism int
}

// NewEngine builds an Engine. parallelism bounds concurrent chunk uploads
// within a single asset; values below 1 are raised to 1.
func NewEngine(client Client, mover Mover, log logging.Logger, parallelism int) *Engine {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Engine{
		api:         client,
		mover:       mover,
		log:         log,
		parallelism: parallelism,
	}
}
