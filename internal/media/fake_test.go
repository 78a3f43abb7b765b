package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
	"github.com/appmarket/appship/internal/logging"
)

func testLogger() logging.Logger {
	return logging.New(io.Discard, "error")
}

// writeTree materializes files under a fresh temp root. Keys are
// slash-separated paths relative to the root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o770))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o660))
	}
	return root
}

func errTransport(msg string) error {
	return fmt.Errorf("%s: %w", msg, common.ErrorTransport)
}

// fakeAPI is an in-memory marketplace backend. Every call is appended to
// ops so tests can assert what happened and in which order.
type fakeAPI struct {
	mu        sync.Mutex
	sets      []*api.AssetSet
	nextSet   int
	nextAsset int
	ops       []string

	// chunkSize is the byte-range length handed out by reservations;
	// zero means a single range covering the whole file.
	chunkSize int64

	listErr      error
	createErr    error
	reserveErr   map[string]error // keyed by file name
	commitErr    map[string]error // keyed by file name
	deleteErr    map[string]error // keyed by asset id
	deleteSetErr map[string]error // keyed by set id
	reorderErr   error

	// lateSet joins the backend right after the next listing, simulating
	// a set created concurrently by another client.
	lateSet *api.AssetSet
	// conflictSet makes the next create fail with ALREADY_EXISTS while
	// registering this set as the concurrent winner.
	conflictSet *api.AssetSet

	// onList runs at the start of every listing, with the fake locked.
	// Polling tests use it to advance asset states between polls.
	onList func()

	reorders map[string][]string // last accepted order per set id
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		reserveErr:   map[string]error{},
		commitErr:    map[string]error{},
		deleteErr:    map[string]error{},
		deleteSetErr: map[string]error{},
		reorders:     map[string][]string{},
	}
}

func (f *fakeAPI) logOp(format string, args ...any) {
	f.ops = append(f.ops, fmt.Sprintf(format, args...))
}

// addSet seeds a remote set. Asset IDs are whatever the test passes in.
func (f *fakeAPI) addSet(locale, displayType, kind string, assets ...api.Asset) *api.AssetSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSet++
	set := &api.AssetSet{
		ID:          fmt.Sprintf("set-%d", f.nextSet),
		Locale:      locale,
		DisplayType: displayType,
		Kind:        kind,
		Assets:      assets,
	}
	f.sets = append(f.sets, set)
	return set
}

func (f *fakeAPI) setByID(id string) *api.AssetSet {
	for _, set := range f.sets {
		if set.ID == id {
			return set
		}
	}
	return nil
}

func (f *fakeAPI) assetByID(id string) *api.Asset {
	for _, set := range f.sets {
		for i := range set.Assets {
			if set.Assets[i].ID == id {
				return &set.Assets[i]
			}
		}
	}
	return nil
}

// opsMatching returns the logged operations starting with prefix.
func (f *fakeAPI) opsMatching(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, op := range f.ops {
		if strings.HasPrefix(op, prefix) {
			out = append(out, op)
		}
	}
	return out
}

func (f *fakeAPI) ListAssetSets(ctx context.Context, versionID string) ([]api.AssetSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("list %s", versionID)
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]api.AssetSet, 0, len(f.sets))
	for _, set := range f.sets {
		cp := *set
		cp.Assets = append([]api.Asset(nil), set.Assets...)
		out = append(out, cp)
	}
	if f.lateSet != nil {
		f.sets = append(f.sets, f.lateSet)
		f.lateSet = nil
	}
	return out, nil
}

func (f *fakeAPI) CreateAssetSet(ctx context.Context, versionID, locale, displayType, kind string) (*api.AssetSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("createSet %s/%s/%s", locale, displayType, kind)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.conflictSet != nil {
		f.sets = append(f.sets, f.conflictSet)
		f.conflictSet = nil
		return nil, &api.Error{Status: 409, Code: api.CodeAlreadyExists, Title: "Conflict"}
	}
	f.nextSet++
	set := &api.AssetSet{
		ID:          fmt.Sprintf("set-%d", f.nextSet),
		Locale:      locale,
		DisplayType: displayType,
		Kind:        kind,
	}
	f.sets = append(f.sets, set)
	cp := *set
	return &cp, nil
}

func (f *fakeAPI) ReserveAsset(ctx context.Context, setID, fileName string, fileSize int64) (*api.ReservedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("reserve %s", fileName)
	if err := f.reserveErr[fileName]; err != nil {
		return nil, err
	}
	set := f.setByID(setID)
	if set == nil {
		return nil, fmt.Errorf("set %s: %w", setID, common.ErrorNotFound)
	}

	f.nextAsset++
	asset := api.Asset{
		ID:       fmt.Sprintf("asset-%d", f.nextAsset),
		FileName: fileName,
		FileSize: fileSize,
		State:    api.StateAwaitingUpload,
	}
	set.Assets = append(set.Assets, asset)

	size := f.chunkSize
	if size <= 0 || size > fileSize {
		size = fileSize
	}
	var uploadOps []api.UploadOperation
	for off := int64(0); off < fileSize; off += size {
		length := size
		if off+length > fileSize {
			length = fileSize - off
		}
		uploadOps = append(uploadOps, api.UploadOperation{
			Method:  "PUT",
			URL:     fmt.Sprintf("mem://%s/%d", asset.ID, off),
			Offset:  off,
			Length:  length,
			Headers: []api.HTTPHeader{{Name: "X-Part", Value: fmt.Sprintf("%d", off/size+1)}},
		})
	}
	return &api.ReservedAsset{Asset: asset, UploadOperations: uploadOps}, nil
}

func (f *fakeAPI) CommitAsset(ctx context.Context, assetID, checksum string) (*api.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset := f.assetByID(assetID)
	name := assetID
	if asset != nil {
		name = asset.FileName
	}
	f.logOp("commit %s %s", name, checksum)
	if asset == nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, common.ErrorNotFound)
	}
	if err := f.commitErr[asset.FileName]; err != nil {
		return nil, err
	}
	asset.State = api.StateUploadComplete
	asset.Checksum = checksum
	cp := *asset
	return &cp, nil
}

func (f *fakeAPI) DeleteAsset(ctx context.Context, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("deleteAsset %s", assetID)
	if err := f.deleteErr[assetID]; err != nil {
		return err
	}
	for _, set := range f.sets {
		for i := range set.Assets {
			if set.Assets[i].ID == assetID {
				set.Assets = append(set.Assets[:i], set.Assets[i+1:]...)
				return nil
			}
		}
	}
	// Unknown ids delete cleanly, mirroring the remote 404 contract.
	return nil
}

func (f *fakeAPI) DeleteAssetSet(ctx context.Context, setID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("deleteSet %s", setID)
	if err := f.deleteSetErr[setID]; err != nil {
		return err
	}
	for i, set := range f.sets {
		if set.ID == setID {
			f.sets = append(f.sets[:i], f.sets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAPI) ReorderAssets(ctx context.Context, setID string, assetIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logOp("reorder %s [%s]", setID, strings.Join(assetIDs, " "))
	if f.reorderErr != nil {
		return f.reorderErr
	}
	set := f.setByID(setID)
	if set == nil {
		return fmt.Errorf("set %s: %w", setID, common.ErrorNotFound)
	}
	byID := make(map[string]api.Asset, len(set.Assets))
	for _, a := range set.Assets {
		byID[a.ID] = a
	}
	ordered := make([]api.Asset, 0, len(assetIDs))
	for _, id := range assetIDs {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	set.Assets = ordered
	f.reorders[setID] = append([]string(nil), assetIDs...)
	return nil
}

// fakeMover keeps uploaded chunks and canned downloads in memory, keyed by
// URL.
type fakeMover struct {
	mu       sync.Mutex
	chunks   map[string][]byte
	files    map[string][]byte
	putErr   map[string]error
	fetchErr map[string]error
	fetched  []string
}

func newFakeMover() *fakeMover {
	return &fakeMover{
		chunks:   map[string][]byte{},
		files:    map[string][]byte{},
		putErr:   map[string]error{},
		fetchErr: map[string]error{},
	}
}

func (m *fakeMover) PutChunk(ctx context.Context, op api.UploadOperation, chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.putErr[op.URL]; err != nil {
		return err
	}
	m.chunks[op.URL] = append([]byte(nil), chunk...)
	return nil
}

func (m *fakeMover) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, url)
	if err := m.fetchErr[url]; err != nil {
		return nil, err
	}
	data, ok := m.files[url]
	if !ok {
		return nil, errTransport(fmt.Sprintf("GET %s: status 404", url))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestEngine(f *fakeAPI, m *fakeMover) *Engine {
	return NewEngine(f, m, testLogger(), 2)
}
