package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appmarket/appship/internal/common"
)

func TestReserveAsset_RequestAndResponse(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/assetSets/set-1/assets", r.URL.Path)

		var in struct {
			FileName string `json:"fileName"`
			FileSize int64  `json:"fileSize"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "01_home.png", in.FileName)
		require.Equal(t, int64(2048), in.FileSize)

		_, _ = w.Write([]byte(`{"data": {
			"id": "asset-1",
			"fileName": "01_home.png",
			"fileSize": 2048,
			"state": "AWAITING_UPLOAD",
			"uploadOperations": [
				{"method": "PUT", "url": "https://cdn.test/part1", "offset": 0, "length": 1024,
				 "requestHeaders": [{"name": "Content-Type", "value": "image/png"}]},
				{"method": "PUT", "url": "https://cdn.test/part2", "offset": 1024, "length": 1024,
				 "requestHeaders": []}
			]
		}}`))
	}), Options{})

	reserved, err := c.ReserveAsset(context.Background(), "set-1", "01_home.png", 2048)
	require.NoError(t, err)
	require.Equal(t, "asset-1", reserved.ID)
	require.Equal(t, StateAwaitingUpload, reserved.State)
	require.Len(t, reserved.UploadOperations, 2)
	require.Equal(t, int64(1024), reserved.UploadOperations[1].Offset)
	require.Equal(t, "Content-Type", reserved.UploadOperations[0].Headers[0].Name)
}

func TestCommitAsset_SendsUploadedFlagAndChecksum(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/assets/asset-1", r.URL.Path)

		var in struct {
			Uploaded bool   `json:"uploaded"`
			Checksum string `json:"checksum"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.True(t, in.Uploaded)
		require.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", in.Checksum)

		_, _ = w.Write([]byte(`{"data": {"id": "asset-1", "state": "UPLOAD_COMPLETE"}}`))
	}), Options{})

	asset, err := c.CommitAsset(context.Background(), "asset-1", "5eb63bbbe01eeed093cb22bb8f5acdc3")
	require.NoError(t, err)
	require.Equal(t, StateUploadComplete, asset.State)
}

func TestCommitAsset_ChecksumRejection(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errors": [{"status": 409, "code": "ASSET_CHECKSUM_MISMATCH", "title": "Digest mismatch"}]}`))
	}), Options{})

	_, err := c.CommitAsset(context.Background(), "asset-1", "deadbeef")
	require.ErrorIs(t, err, common.ErrorIntegrity)
}

func TestDeleteAsset_MissingAssetIsSuccess(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors": [{"status": 404, "code": "NOT_FOUND", "title": "gone"}]}`))
	}), Options{})

	require.NoError(t, c.DeleteAsset(context.Background(), "asset-zombie"))
}

func TestDeleteAsset_OtherErrorsPropagate(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors": [{"status": 403, "code": "FORBIDDEN", "title": "no"}]}`))
	}), Options{})

	err := c.DeleteAsset(context.Background(), "asset-1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestReorderAssets_SendsIDList(t *testing.T) {
	var got []string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/assetSets/set-1/relationships/assets", r.URL.Path)

		var in struct {
			Data []string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		got = in.Data
		w.WriteHeader(http.StatusNoContent)
	}), Options{})

	require.NoError(t, c.ReorderAssets(context.Background(), "set-1", []string{"a1", "a2", "a3"}))
	require.Equal(t, []string{"a1", "a2", "a3"}, got)
}

func TestListAssetSets_IncludesAssets(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/versions/v1/assetSets", r.URL.Path)
		require.Equal(t, "assets", r.URL.Query().Get("include"))

		_, _ = w.Write([]byte(`{"data": [
			{"id": "set-1", "locale": "en-US", "displayType": "APP_PHONE_67", "kind": "SCREENSHOT",
			 "assets": [{"id": "a1", "fileName": "01_home.png", "state": "COMPLETE"}]}
		]}`))
	}), Options{})

	sets, err := c.ListAssetSets(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, "APP_PHONE_67", sets[0].DisplayType)
	require.Len(t, sets[0].Assets, 1)
	require.Equal(t, StateComplete, sets[0].Assets[0].State)
}

func TestCreateAssetSet_ConflictDetection(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"errors": [{"status": 409, "code": "ALREADY_EXISTS", "title": "set exists"}]}`))
	}), Options{})

	_, err := c.CreateAssetSet(context.Background(), "v1", "en-US", "APP_PHONE_67", KindScreenshot)
	require.Error(t, err)
	require.True(t, IsConflict(err))
}
