package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appmarket/appship/internal/api"
	"github.com/appmarket/appship/internal/common"
)

func TestDownloadWritesOrderedTree(t *testing.T) {
	f := newFakeAPI()
	f.addSet("en-US", "PHONE_65", api.KindScreenshot,
		api.Asset{
			ID: "a1", FileName: "home.png", State: api.StateComplete,
			ImageTemplateURL: "https://cdn.appmarket.dev/img/{w}x{h}.{f}",
			Width:            1290, Height: 2796,
		},
		api.Asset{
			ID: "a2", FileName: "store.jpg", State: api.StateComplete,
			ImageTemplateURL: "https://cdn.appmarket.dev/img2/{w}x{h}.{f}",
			Width:            1290, Height: 2796,
		})
	f.addSet("en-US", "PHONE_65", api.KindPreview,
		api.Asset{
			ID: "p1", FileName: "intro.mp4", State: api.StateComplete,
			VideoURL: "https://cdn.appmarket.dev/vid/intro.mp4",
		})

	m := newFakeMover()
	// The image template resolves with the full-size dimensions and the
	// format taken from the file's own extension.
	m.files["https://cdn.appmarket.dev/img/1290x2796.png"] = []byte("png bytes")
	m.files["https://cdn.appmarket.dev/img2/1290x2796.jpg"] = []byte("jpg bytes")
	m.files["https://cdn.appmarket.dev/vid/intro.mp4"] = []byte("mp4 bytes")

	root := t.TempDir()
	sum, err := newTestEngine(f, m).Download(context.Background(), root, "v1")
	require.NoError(t, err)
	require.True(t, sum.Ok())
	require.Equal(t, 3, sum.Succeeded)

	read := func(rel string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		return string(data)
	}
	require.Equal(t, "png bytes", read("en-US/PHONE_65/01_home.png"))
	require.Equal(t, "jpg bytes", read("en-US/PHONE_65/02_store.jpg"))
	require.Equal(t, "mp4 bytes", read("en-US/PHONE_65/01_intro.mp4"))

	// No leftover partial files.
	entries, err := os.ReadDir(filepath.Join(root, "en-US", "PHONE_65"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestDownloadSkipsAssetsWithoutDeliveryURL(t *testing.T) {
	f := newFakeAPI()
	f.addSet("en-US", "PHONE_65", api.KindScreenshot,
		api.Asset{ID: "a1", FileName: "pending.png", State: api.StateUploadComplete})

	m := newFakeMover()
	sum, err := newTestEngine(f, m).Download(context.Background(), t.TempDir(), "v1")
	require.NoError(t, err)
	require.True(t, sum.Ok())
	require.Equal(t, 1, sum.Skipped)
	require.Empty(t, m.fetched)
}

func TestDownloadFailureSkipsToNextAsset(t *testing.T) {
	f := newFakeAPI()
	f.addSet("en-US", "PHONE_65", api.KindScreenshot,
		api.Asset{
			ID: "a1", FileName: "gone.png", State: api.StateComplete,
			ImageTemplateURL: "https://cdn.appmarket.dev/gone/{w}x{h}.{f}", Width: 10, Height: 20,
		},
		api.Asset{
			ID: "a2", FileName: "ok.png", State: api.StateComplete,
			ImageTemplateURL: "https://cdn.appmarket.dev/ok/{w}x{h}.{f}", Width: 10, Height: 20,
		})

	m := newFakeMover()
	m.fetchErr["https://cdn.appmarket.dev/gone/10x20.png"] = errTransport("status 502")
	m.files["https://cdn.appmarket.dev/ok/10x20.png"] = []byte("ok")

	root := t.TempDir()
	sum, err := newTestEngine(f, m).Download(context.Background(), root, "v1")
	require.NoError(t, err)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, 1, sum.Succeeded)
	require.ErrorIs(t, sum.Err(), common.ErrorTransport)

	_, statErr := os.Stat(filepath.Join(root, "en-US", "PHONE_65", "01_gone.png"))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, "en-US", "PHONE_65", "02_ok.png"))
	require.NoError(t, statErr)
}

func TestDownloadListFailureIsFatal(t *testing.T) {
	f := newFakeAPI()
	f.listErr = errTransport("down")

	_, err := newTestEngine(f, newFakeMover()).Download(context.Background(), t.TempDir(), "v1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "list asset sets")
}

// TestUploadDownloadRoundTrip pushes a tree up in chunks, exposes the
// uploaded bytes behind delivery URLs, downloads into a second root and
// compares content byte for byte.
func TestUploadDownloadRoundTrip(t *testing.T) {
	files := map[string]string{
		"en-US/PHONE_65/a.png":    "first screenshot bytes",
		"en-US/PHONE_65/b.png":    "second, different bytes",
		"en-US/PHONE_65/clip.mp4": "a few frames of video",
	}
	root := writeTree(t, files)

	f := newFakeAPI()
	f.chunkSize = 5
	m := newFakeMover()
	eng := newTestEngine(f, m)

	sum, err := eng.Upload(context.Background(), root, "v1", UploadOptions{})
	require.NoError(t, err)
	require.True(t, sum.Ok())

	// Flip every uploaded asset to delivered: reassemble its chunks and
	// serve them at a delivery URL of the matching kind.
	for _, set := range f.sets {
		for i := range set.Assets {
			asset := &set.Assets[i]
			var blob []byte
			for off := int64(0); off < asset.FileSize; off += f.chunkSize {
				chunk, ok := m.chunks[fmt.Sprintf("mem://%s/%d", asset.ID, off)]
				require.True(t, ok, "missing chunk for %s at %d", asset.FileName, off)
				blob = append(blob, chunk...)
			}
			asset.State = api.StateComplete
			if set.Kind == api.KindPreview {
				url := "mem://cdn/" + asset.ID
				asset.VideoURL = url
				m.files[url] = blob
				continue
			}
			asset.ImageTemplateURL = "mem://cdn/" + asset.ID + "/{w}x{h}.{f}"
			asset.Width = 100
			asset.Height = 200
			m.files["mem://cdn/"+asset.ID+"/100x200.png"] = blob
		}
	}

	target := t.TempDir()
	dsum, err := eng.Download(context.Background(), target, "v1")
	require.NoError(t, err)
	require.True(t, dsum.Ok())
	require.Equal(t, 3, dsum.Succeeded)

	roundTripped := map[string]string{
		"en-US/PHONE_65/a.png":    "en-US/PHONE_65/01_a.png",
		"en-US/PHONE_65/b.png":    "en-US/PHONE_65/02_b.png",
		"en-US/PHONE_65/clip.mp4": "en-US/PHONE_65/01_clip.mp4",
	}
	for orig, downloaded := range roundTripped {
		data, err := os.ReadFile(filepath.Join(target, filepath.FromSlash(downloaded)))
		require.NoError(t, err)
		require.Equal(t, files[orig], string(data), "content changed for %s", orig)
	}
}
